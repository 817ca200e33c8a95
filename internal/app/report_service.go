// internal/app/report_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"daily_report_bot/internal/domain/calendar"
	"daily_report_bot/internal/domain/chat"
	"daily_report_bot/internal/domain/report"
	"daily_report_bot/internal/domain/session"
)

// SelectableDays is how many calendar days (today and earlier) a report may be filed for.
const SelectableDays = 3

var ErrSaveFailed = errors.New("failed to save report")

// SubmissionInput carries the submitted form fields and the submitter identity.
type SubmissionInput struct {
	UserID    string
	Nickname  string
	Username  string
	Minutes   string // Raw text from the form
	Work      string
	Condition string
	Comment   string
}

// SubmitResult describes a saved report. PostErr is set when the record was
// saved but the channel post failed.
type SubmitResult struct {
	Report  *report.Report
	Posted  bool
	PostErr error
}

// ReportService drives the multi-step report submission.
type ReportService struct {
	sessions      session.Store
	reports       report.Repository
	chatClient    chat.Client
	sections      *report.SectionTable
	postChannelID snowflake.ID
	sessionTTL    time.Duration
	logger        *logrus.Entry
	now           func() time.Time
	newToken      func() string
}

func NewReportService(
	sessions session.Store,
	reports report.Repository,
	chatClient chat.Client,
	sections *report.SectionTable,
	postChannelID snowflake.ID, // Zero disables the channel post
	sessionTTL time.Duration,
	logger *logrus.Entry,
) *ReportService {
	return &ReportService{
		sessions:      sessions,
		reports:       reports,
		chatClient:    chatClient,
		sections:      sections,
		postChannelID: postChannelID,
		sessionTTL:    sessionTTL,
		logger:        logger,
		now:           time.Now,
		newToken:      func() string { return uuid.NewString() },
	}
}

// Sections returns the sections offered in the section step.
func (s *ReportService) Sections() []report.Section {
	return s.sections.All()
}

// Start opens a new session and returns the days the member can pick from.
func (s *ReportService) Start(ctx context.Context, userID string) (*session.Session, []calendar.Day, error) {
	now := s.now()
	days := calendar.RecentDays(now, SelectableDays)

	sess := session.New(s.newToken(), userID, calendar.Keys(days), now, s.sessionTTL)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"token":   sess.Token,
	}).Debug("Report session started")
	return sess, days, nil
}

// ChooseDate records the picked date and returns the sections to pick from next.
func (s *ReportService) ChooseDate(ctx context.Context, token, userID, dateKey string) (*session.Session, []report.Section, error) {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if err := sess.SelectDate(userID, dateKey, s.now()); err != nil {
		return nil, nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"token":    token,
		"date_key": dateKey,
	}).Debug("Report date selected")
	return sess, s.sections.All(), nil
}

// ChooseSection records the picked section. The form is shown next.
func (s *ReportService) ChooseSection(ctx context.Context, token, userID, sectionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := sess.SelectSection(userID, sectionID, s.now()); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"token":   token,
		"section": sectionID,
	}).Debug("Report section selected")
	return sess, nil
}

// Submit validates the form, appends the report and posts it to the report
// channel when one is configured. The session ends with any outcome other
// than a session error.
func (s *ReportService) Submit(ctx context.Context, token string, in SubmissionInput) (*SubmitResult, error) {
	logCtx := s.logger.WithFields(logrus.Fields{
		"user_id": in.UserID,
		"token":   token,
	})

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := sess.ReadyForSubmit(in.UserID, now); err != nil {
		return nil, err
	}

	// Claim the session. A concurrent submission of the same form finds it gone.
	sess, err = s.sessions.Take(ctx, token)
	if err != nil {
		logCtx.WithError(err).Info("Session already claimed by another submission")
		return nil, err
	}
	if err := sess.ReadyForSubmit(in.UserID, now); err != nil {
		return nil, err
	}

	minutes, err := report.ParseMinutes(in.Minutes)
	if err != nil {
		logCtx.WithField("minutes", in.Minutes).Info("Rejected report with invalid minutes")
		return nil, err
	}

	r := &report.Report{
		SubmittedAt:  now,
		SubmitterID:  in.UserID,
		DisplayName:  report.ResolveDisplayName(in.Nickname, in.Username),
		DateKey:      sess.DateKey,
		SectionID:    sess.SectionID,
		SectionLabel: s.sections.Label(sess.SectionID),
		Minutes:      minutes,
		Work:         in.Work,
		Condition:    in.Condition,
		Comment:      in.Comment,
	}
	logCtx = logCtx.WithFields(logrus.Fields{
		"date_key": r.DateKey,
		"section":  r.SectionID,
		"minutes":  r.Minutes,
	})

	if err := s.reports.Append(ctx, r); err != nil {
		logCtx.WithError(err).Error("Failed to save report")
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	logCtx.Info("Report saved")

	result := &SubmitResult{Report: r}
	if s.postChannelID == 0 {
		return result, nil
	}

	if err := s.chatClient.PostReport(ctx, s.postChannelID, r); err != nil {
		logCtx.WithError(err).WithField("channel_id", s.postChannelID.String()).Error("Report saved but channel post failed")
		result.PostErr = err
		return result, nil
	}
	result.Posted = true
	logCtx.WithField("channel_id", s.postChannelID.String()).Info("Report posted to channel")
	return result, nil
}
