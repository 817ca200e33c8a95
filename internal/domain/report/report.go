package report

import (
	"strings"
	"time"
)

// SubmittedAtLayout matches the ISO-8601 timestamps already present in the sheet.
const SubmittedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Report is a single daily work report. It is written once and never updated.
type Report struct {
	SubmittedAt  time.Time
	SubmitterID  string
	DisplayName  string
	DateKey      string // Calendar day the report covers
	SectionID    string
	SectionLabel string
	Minutes      int
	Work         string
	Condition    string
	Comment      string
}

// Row returns the spreadsheet row for the report, in column order.
func (r *Report) Row() []interface{} {
	return []interface{}{
		r.SubmittedAt.UTC().Format(SubmittedAtLayout),
		r.SubmitterID,
		r.DisplayName,
		r.DateKey,
		r.SectionLabel,
		r.Minutes,
		r.Work,
		r.Condition,
		r.Comment,
	}
}

// HeaderRow holds the column titles matching Row.
var HeaderRow = []interface{}{
	"提出日時", "ユーザーID", "表示名", "日付", "セクション", "稼働時間（分）", "主な作業内容", "コンディション", "コメント",
}

// ResolveDisplayName prefers the server nickname and falls back to the account username.
func ResolveDisplayName(nickname, username string) string {
	if n := strings.TrimSpace(nickname); n != "" {
		return n
	}
	return username
}
