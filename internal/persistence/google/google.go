package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"expenses/internal/apperrors"
	"expenses/internal/core"
	"expenses/internal/persistence"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultSheetName is the tab expenses are kept in.
const DefaultSheetName = "Expenses"

var _ persistence.Persistence = (*Client)(nil)

// Config selects the spreadsheet and the service account credentials.
// Inline JSON wins over the file.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
	// Logger receives adapter warnings; nil uses slog.Default().
	Logger *slog.Logger
}

// Client stores one expense per row as ID | Date | Description | Amount,
// below a header row.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
	newID         func() string
	logger        *slog.Logger
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	c, err := NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		return nil, err
	}
	return c.WithLogger(cfg.Logger), nil
}

// NewWithService wraps an existing service, e.g. one built with a custom
// endpoint.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheet string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheet) == "" {
		sheet = DefaultSheetName
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheet:         sheet,
		newID:         uuid.NewString,
		logger:        slog.Default(),
	}, nil
}

// WithLogger sets the logger used for adapter warnings. A nil logger is
// ignored.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

func (c *Client) FetchAll(ctx context.Context) ([]core.Expense, error) {
	values, err := c.readRows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Expense, 0, len(values))
	for i, row := range values {
		if isBlank(row) {
			continue
		}
		e, err := rowToExpense(row)
		if err != nil {
			c.logger.WarnContext(ctx, "Skipping unreadable sheet row", "row", i+2, "error", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, p core.Payload) (string, error) {
	if err := p.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	id := c.newID()
	vr := &gsheet.ValueRange{Values: [][]any{expenseRow(p.Expense(id))}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.sheet+"!A:D", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheet, err)
	}
	return id, nil
}

func (c *Client) Update(ctx context.Context, id string, patch core.Patch) error {
	values, err := c.readRows(ctx)
	if err != nil {
		return err
	}
	idx := findRow(values, id)
	if idx < 0 {
		return fmt.Errorf("expense %s: %w", id, apperrors.ErrNotFound)
	}
	current, err := rowToExpense(values[idx])
	if err != nil {
		return fmt.Errorf("read row for %s: %w", id, err)
	}

	rowNum := idx + 2
	rng := fmt.Sprintf("%s!A%d:D%d", c.sheet, rowNum, rowNum)
	vr := &gsheet.ValueRange{Values: [][]any{expenseRow(patch.Apply(current))}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	values, err := c.readRows(ctx)
	if err != nil {
		return err
	}
	idx := findRow(values, id)
	if idx < 0 {
		return fmt.Errorf("expense %s: %w", id, apperrors.ErrNotFound)
	}
	sheetID, err := c.sheetID(ctx)
	if err != nil {
		return err
	}

	// Row 1 is the header; data row idx sits at zero based index idx+1.
	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		DeleteDimension: &gsheet.DeleteDimensionRequest{Range: &gsheet.DimensionRange{
			SheetId:    sheetID,
			Dimension:  "ROWS",
			StartIndex: int64(idx + 1),
			EndIndex:   int64(idx + 2),
		}},
	}}}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d of %s: %w", idx+2, c.sheet, err)
	}
	return nil
}

func (c *Client) readRows(ctx context.Context) ([][]any, error) {
	rng := c.sheet + "!A2:D"
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func (c *Client) sheetID(ctx context.Context) (int64, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet properties: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == c.sheet {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", c.sheet)
}
