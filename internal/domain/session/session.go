// Package session models the report submission flow as a small state machine.
// A session is created by /daily (or the reminder button) and is referenced
// from every component the member interacts with afterwards by its token.
package session

import (
	"errors"
	"slices"
	"time"
)

// State is the step a submission session is waiting on.
type State string

const (
	StateAwaitingDate    State = "AWAITING_DATE"
	StateAwaitingSection State = "AWAITING_SECTION"
	StateAwaitingForm    State = "AWAITING_FORM"
)

var (
	ErrNotFound        = errors.New("session not found")
	ErrExpired         = errors.New("session expired")
	ErrUnexpectedState = errors.New("unexpected step for session state")
	ErrWrongUser       = errors.New("session belongs to another user")
	ErrDateNotOffered  = errors.New("date was not offered in this session")
)

type Session struct {
	Token        string
	UserID       string
	State        State
	OfferedDates []string
	DateKey      string
	SectionID    string
	TTL          time.Duration
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

func New(token, userID string, offeredDates []string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		Token:        token,
		UserID:       userID,
		State:        StateAwaitingDate,
		OfferedDates: offeredDates,
		TTL:          ttl,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SelectDate moves AWAITING_DATE to AWAITING_SECTION.
func (s *Session) SelectDate(userID, dateKey string, now time.Time) error {
	if err := s.check(userID, now, StateAwaitingDate); err != nil {
		return err
	}
	if !slices.Contains(s.OfferedDates, dateKey) {
		return ErrDateNotOffered
	}
	s.DateKey = dateKey
	s.State = StateAwaitingSection
	s.touch(now)
	return nil
}

// SelectSection moves to AWAITING_FORM. Picking again while the form step is
// active replaces the section, since the menu stays visible after a dismissed form.
func (s *Session) SelectSection(userID, sectionID string, now time.Time) error {
	if err := s.check(userID, now, StateAwaitingSection, StateAwaitingForm); err != nil {
		return err
	}
	s.SectionID = sectionID
	s.State = StateAwaitingForm
	s.touch(now)
	return nil
}

// ReadyForSubmit reports whether a form submission may complete the session.
func (s *Session) ReadyForSubmit(userID string, now time.Time) error {
	return s.check(userID, now, StateAwaitingForm)
}

func (s *Session) check(userID string, now time.Time, allowed ...State) error {
	if s.Expired(now) {
		return ErrExpired
	}
	if s.UserID != userID {
		return ErrWrongUser
	}
	if !slices.Contains(allowed, s.State) {
		return ErrUnexpectedState
	}
	return nil
}

func (s *Session) touch(now time.Time) {
	s.ExpiresAt = now.Add(s.TTL)
}
