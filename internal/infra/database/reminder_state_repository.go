package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLReminderStateRepository stores the last reminder date per channel so the
// once-a-day guarantee survives restarts. The queries work on both PostgreSQL
// and SQLite.
type SQLReminderStateRepository struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

func NewSQLReminderStateRepository(db *sql.DB, driver string) *SQLReminderStateRepository {
	return &SQLReminderStateRepository{db: db, driver: driver, now: time.Now}
}

func (r *SQLReminderStateRepository) LastSentDate(ctx context.Context, channelID string) (string, error) {
	query := `SELECT last_sent_date FROM reminder_state WHERE channel_id = $1`
	var dateKey string
	err := r.db.QueryRowContext(ctx, rebind(r.driver, query), channelID).Scan(&dateKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("error getting reminder state for channel %s: %w", channelID, err)
	}
	return dateKey, nil
}

func (r *SQLReminderStateRepository) MarkSent(ctx context.Context, channelID string, dateKey string) error {
	query := `INSERT INTO reminder_state (channel_id, last_sent_date, updated_at)
               VALUES ($1, $2, $3)
               ON CONFLICT (channel_id) DO UPDATE
               SET last_sent_date = excluded.last_sent_date, updated_at = excluded.updated_at`
	updatedAt := r.now().UTC().Format(time.RFC3339)
	if _, err := r.db.ExecContext(ctx, rebind(r.driver, query), channelID, dateKey, updatedAt); err != nil {
		return fmt.Errorf("error saving reminder state for channel %s: %w", channelID, err)
	}
	return nil
}
