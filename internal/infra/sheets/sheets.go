package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"daily_report_bot/internal/domain/report"
)

// NewService builds a Sheets client authenticated as the given service account.
func NewService(ctx context.Context, credentialsJSON []byte) (*gsheets.Service, error) {
	config, err := google.JWTConfigFromJSON(credentialsJSON, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account credentials: %w", err)
	}

	srv, err := gsheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets client: %w", err)
	}
	return srv, nil
}

// ReportRepository appends reports as rows of a spreadsheet.
type ReportRepository struct {
	srv           *gsheets.Service
	spreadsheetID string
	writeRange    string
}

func NewReportRepository(srv *gsheets.Service, spreadsheetID, writeRange string) *ReportRepository {
	return &ReportRepository{srv: srv, spreadsheetID: spreadsheetID, writeRange: writeRange}
}

// Append writes r after the last row of the table found at the configured range.
func (r *ReportRepository) Append(ctx context.Context, rep *report.Report) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{rep.Row()}}
	_, err := r.srv.Spreadsheets.Values.Append(r.spreadsheetID, r.writeRange, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append report row: %w", err)
	}
	return nil
}

// EnsureHeader writes the column titles to the first row of the sheet rows are
// appended to, if that row is empty. It reports whether a header was written.
func (r *ReportRepository) EnsureHeader(ctx context.Context) (bool, error) {
	tab := sheetPrefix(r.writeRange)
	resp, err := r.srv.Spreadsheets.Values.Get(r.spreadsheetID, tab+"1:1").Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to read header row: %w", err)
	}
	if len(resp.Values) > 0 {
		return false, nil
	}

	vr := &gsheets.ValueRange{Values: [][]interface{}{report.HeaderRow}}
	_, err = r.srv.Spreadsheets.Values.Update(r.spreadsheetID, tab+"A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return false, fmt.Errorf("failed to write header row: %w", err)
	}
	return true, nil
}

// sheetPrefix returns the "<tab>!" part of an A1 range, or "" when the range
// targets the first sheet.
func sheetPrefix(a1Range string) string {
	if i := strings.LastIndex(a1Range, "!"); i >= 0 {
		return a1Range[:i+1]
	}
	return ""
}
