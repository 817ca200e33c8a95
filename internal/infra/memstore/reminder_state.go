package memstore

import (
	"context"
	"sync"
)

// ReminderState keeps the last-sent date keys for the lifetime of the process.
type ReminderState struct {
	mu       sync.Mutex
	lastSent map[string]string
}

func NewReminderState() *ReminderState {
	return &ReminderState{lastSent: make(map[string]string)}
}

func (r *ReminderState) LastSentDate(_ context.Context, channelID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSent[channelID], nil
}

func (r *ReminderState) MarkSent(_ context.Context, channelID string, dateKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSent[channelID] = dateKey
	return nil
}
