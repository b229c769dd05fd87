package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"expenses/internal/apperrors"
	"expenses/internal/form"
	applog "expenses/internal/log"
	"expenses/internal/services"
)

func (s *Server) handleListAll(w http.ResponseWriter, r *http.Request) {
	notice := s.refresh(r)
	NewJSONResponse().JSON(toViewJSON(s.svc.All(), notice)).Write(w)
}

func (s *Server) handleListRecent(w http.ResponseWriter, r *http.Request) {
	notice := s.refresh(r)
	NewJSONResponse().JSON(toViewJSON(s.svc.Recent(), notice)).Write(w)
}

// refresh reloads the mirror unless the client opted out with
// ?refresh=false. It returns the notice to show when the fetch failed.
func (s *Server) refresh(r *http.Request) string {
	if r.URL.Query().Get("refresh") == "false" {
		return ""
	}
	if err := s.svc.Load(r.Context()); err != nil {
		return services.UserMessage(err)
	}
	return ""
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, ok := s.svc.Get(id)
	if !ok {
		NotFoundError("Expense not found").Write(w)
		return
	}
	NewJSONResponse().JSON(toExpenseJSON(e)).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, "", http.StatusCreated)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, r.PathValue("id"), http.StatusOK)
}

// submit drives the add or edit screen: every field present in the body is
// applied as if typed, then the form is submitted.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, id string, okStatus int) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		logger.WarnContext(ctx, "Failed to parse request body", applog.FieldError, err)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	ed, err := s.svc.Editor(id)
	if err != nil {
		NotFoundError("Expense not found").Write(w)
		return
	}
	for _, field := range form.Fields {
		if parser.Has(string(field)) {
			ed.Change(field, parser.Get(string(field)))
		}
	}

	saved, res, err := ed.Submit(ctx)
	switch {
	case err == nil:
		op := applog.OpCreate
		if ed.Mode == services.ModeEdit {
			op = applog.OpUpdate
		}
		applog.NewStructuredLogger(logger).LogExpense(ctx, op, saved)
		NewJSONResponse().
			Status(okStatus).
			JSON(toExpenseJSON(saved)).
			Write(w)
	case errors.Is(err, apperrors.ErrValidation) && !apperrors.IsPersistence(err):
		NewJSONResponse().
			Status(http.StatusUnprocessableEntity).
			JSON(toFormJSON(ed, res)).
			Write(w)
	case errors.Is(err, apperrors.ErrNotFound) && !apperrors.IsPersistence(err):
		NotFoundError("Expense not found").Write(w)
	default:
		logger.ErrorContext(ctx, "Failed to save expense",
			applog.FieldExpenseID, id,
			applog.FieldError, err)
		ErrorResponse(http.StatusBadGateway, messageOr(err, services.MsgSaveFailed)).Write(w)
	}
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	err := s.svc.Delete(ctx, id)
	switch {
	case err == nil:
		applog.FromContext(ctx).InfoContext(ctx, "Expense deleted",
			applog.FieldExpenseID, id,
			applog.FieldOperation, applog.OpDelete)
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperrors.ErrNotFound) && !apperrors.IsPersistence(err):
		NotFoundError("Expense not found").Write(w)
	default:
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to delete expense",
			applog.FieldExpenseID, id,
			applog.FieldError, err)
		ErrorResponse(http.StatusBadGateway, messageOr(err, services.MsgDeleteFailed)).Write(w)
	}
}

type normalizeRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// handleNormalize applies the per-keystroke normalization of one field.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	req := normalizeRequest{Field: parser.Get("field"), Value: parser.Get("value")}
	field, ok := form.ParseFieldName(req.Field)
	if !ok {
		BadRequestError(fmt.Sprintf("unknown field %q", req.Field)).Write(w)
		return
	}
	NewJSONResponse().JSON(normalizeRequest{Field: string(field), Value: form.Normalize(field, req.Value)}).Write(w)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	activeClients := 0
	if s.rateLimiter != nil {
		activeClients = s.rateLimiter.ActiveClients()
	}

	fmt.Fprintf(w, "# HELP expenses_mirrored Number of expenses in the mirror\n")
	fmt.Fprintf(w, "expenses_mirrored %d\n", len(s.svc.All().Items))
	fmt.Fprintf(w, "# HELP http_requests_total Requests served\n")
	fmt.Fprintf(w, "http_requests_total %d\n", traceMetrics.TotalRequests)
	fmt.Fprintf(w, "http_last_request_duration_ms %d\n", traceMetrics.LastDurationMs)
	fmt.Fprintf(w, "rate_limit_active_clients %d\n", activeClients)
	fmt.Fprintf(w, "uptime_seconds %d\n", int64(time.Since(s.started).Seconds()))
}

// messageOr returns the user message for a persistence failure, or fallback.
func messageOr(err error, fallback string) string {
	if msg := services.UserMessage(err); msg != "" {
		return msg
	}
	return fallback
}
