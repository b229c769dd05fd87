package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"expenses/internal/amqp"
	"expenses/internal/apperrors"
	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/persistence"
	"expenses/internal/store"
)

// Messages shown to the user when the persistence layer fails.
const (
	MsgFetchFailed  = "Could not fetch expenses. Try again later."
	MsgSaveFailed   = "Could not save expense. Please try again later."
	MsgDeleteFailed = "Could not delete the expense. Try again later."
)

// Fallback texts of the two list views.
const (
	FallbackAll    = "No registered expenses found!"
	FallbackRecent = "No expenses registered for the last 7 days."
)

// EventPublisher announces accepted mutations.
type EventPublisher interface {
	Publish(ctx context.Context, ev amqp.ExpenseEvent) error
}

// View is what a list screen renders: the period header and its items.
// Fallback is the text shown when Items is empty.
type View struct {
	Period   string
	Items    []core.Expense
	Summary  core.Summary
	Fallback string
}

// Empty reports whether the view should show its fallback text.
func (v View) Empty() bool { return len(v.Items) == 0 }

// ExpenseService sequences persistence calls and mirror mutations. Every
// mutation goes to the persistence layer first; the mirror only changes
// once the remote call has succeeded.
type ExpenseService struct {
	store     *store.ExpenseStore
	remote    persistence.Persistence
	publisher EventPublisher
	logger    *applog.Logger
	now       func() time.Time
}

// NewExpenseService wires the service. publisher may be nil.
func NewExpenseService(st *store.ExpenseStore, remote persistence.Persistence, publisher EventPublisher, logger *applog.Logger) *ExpenseService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ExpenseService{
		store:     st,
		remote:    remote,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentExpense),
		now:       time.Now,
	}
}

// Load replaces the mirror with the remote collection. On failure the mirror
// is emptied, never left stale.
func (s *ExpenseService) Load(ctx context.Context) error {
	expenses, err := s.remote.FetchAll(ctx)
	if err != nil {
		s.store.Set(nil)
		s.logger.ErrorContext(ctx, "Failed to fetch expenses",
			applog.FieldOperation, applog.OpFetch,
			applog.FieldError, err)
		return apperrors.Persistence(applog.OpFetch, err)
	}
	s.store.Set(expenses)
	s.logger.DebugContext(ctx, "Mirror loaded", applog.FieldCount, len(expenses))
	return nil
}

// All is the view over every mirrored expense.
func (s *ExpenseService) All() View {
	items := s.store.List()
	return View{
		Period:   "Total",
		Items:    items,
		Summary:  core.Summarize("Total", items),
		Fallback: FallbackAll,
	}
}

// Recent is the view over the last core.RecentWindowDays days.
func (s *ExpenseService) Recent() View {
	today := core.Today(s.now())
	items := s.store.Filter(func(e core.Expense) bool {
		return core.IsRecent(e, today, core.RecentWindowDays)
	})
	return View{
		Period:   "Last 7 days",
		Items:    items,
		Summary:  core.Summarize("Last 7 days", items),
		Fallback: FallbackRecent,
	}
}

func (s *ExpenseService) Get(id string) (core.Expense, bool) {
	return s.store.Get(id)
}

// Create persists p and then appends it to the mirror under the returned ID.
func (s *ExpenseService) Create(ctx context.Context, p core.Payload) (core.Expense, error) {
	id, err := s.remote.Create(ctx, p)
	if err != nil {
		s.logFailure(ctx, applog.OpCreate, "", err)
		return core.Expense{}, apperrors.Persistence(applog.OpCreate, err)
	}

	e := p.Expense(id)
	if err := s.store.Add(e); err != nil {
		// The remote record exists; a concurrent refresh may already have
		// mirrored it.
		s.logger.WarnContext(ctx, "Created expense not added to mirror",
			applog.FieldExpenseID, id,
			applog.FieldError, err)
	}
	s.publish(ctx, amqp.EventCreated, e)
	return e, nil
}

// Update persists patch for id and then merges it into the mirror. Only
// mirrored expenses can be updated.
func (s *ExpenseService) Update(ctx context.Context, id string, patch core.Patch) (core.Expense, error) {
	current, ok := s.store.Get(id)
	if !ok {
		return core.Expense{}, fmt.Errorf("update expense %s: %w", id, apperrors.ErrNotFound)
	}

	if err := s.remote.Update(ctx, id, patch); err != nil {
		s.logFailure(ctx, applog.OpUpdate, id, err)
		return core.Expense{}, apperrors.Persistence(applog.OpUpdate, err)
	}

	updated, err := s.store.Update(id, patch)
	if err != nil {
		s.ignoreVanished(ctx, id, err)
		updated = patch.Apply(current)
	}
	s.publish(ctx, amqp.EventUpdated, updated)
	return updated, nil
}

// Delete removes id remotely and then from the mirror.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	current, ok := s.store.Get(id)
	if !ok {
		return fmt.Errorf("delete expense %s: %w", id, apperrors.ErrNotFound)
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		s.logFailure(ctx, applog.OpDelete, id, err)
		return apperrors.Persistence(applog.OpDelete, err)
	}

	if err := s.store.Delete(id); err != nil {
		s.ignoreVanished(ctx, id, err)
	}
	s.publish(ctx, amqp.EventDeleted, current)
	return nil
}

// UserMessage maps a service error to the text shown to the user. It
// returns "" for errors that are not persistence failures.
func UserMessage(err error) string {
	var pe *apperrors.PersistenceError
	if !errors.As(err, &pe) {
		return ""
	}
	switch pe.Op {
	case applog.OpFetch:
		return MsgFetchFailed
	case applog.OpDelete:
		return MsgDeleteFailed
	default:
		return MsgSaveFailed
	}
}

func (s *ExpenseService) ignoreVanished(ctx context.Context, id string, err error) {
	s.logger.WarnContext(ctx, "Expense vanished from mirror after remote write",
		applog.FieldExpenseID, id,
		applog.FieldError, err)
}

func (s *ExpenseService) logFailure(ctx context.Context, op, id string, err error) {
	args := []any{applog.FieldOperation, op, applog.FieldError, err}
	if id != "" {
		args = append(args, applog.FieldExpenseID, id)
	}
	s.logger.ErrorContext(ctx, "Persistence call failed", args...)
}

func (s *ExpenseService) publish(ctx context.Context, typ string, e core.Expense) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, amqp.NewExpenseEvent(typ, e)); err != nil {
		// Don't fail the request - the remote store already has the change
		s.logger.ErrorContext(ctx, "Failed to publish expense event",
			applog.FieldOperation, applog.OpPublish,
			applog.FieldExpenseID, e.ID,
			"type", typ,
			applog.FieldError, err)
	}
}

// Close releases the publisher when it holds a connection.
func (s *ExpenseService) Close() error {
	var errs []error

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}
	return nil
}
