package discordbot

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_bot/internal/app"
	"daily_report_bot/internal/domain/autoreply"
	"daily_report_bot/internal/domain/calendar"
	"daily_report_bot/internal/domain/reminder"
	"daily_report_bot/internal/domain/report"
	"daily_report_bot/internal/infra/memstore"
)

type fakeResponder struct {
	created []discord.MessageCreate
	updated []discord.MessageUpdate
	modals  []discord.ModalCreate
}

func (f *fakeResponder) CreateMessage(messageCreate discord.MessageCreate, _ ...rest.RequestOpt) error {
	f.created = append(f.created, messageCreate)
	return nil
}

func (f *fakeResponder) UpdateMessage(messageUpdate discord.MessageUpdate, _ ...rest.RequestOpt) error {
	f.updated = append(f.updated, messageUpdate)
	return nil
}

func (f *fakeResponder) Modal(modalCreate discord.ModalCreate, _ ...rest.RequestOpt) error {
	f.modals = append(f.modals, modalCreate)
	return nil
}

type discardReports struct{}

func (discardReports) Append(context.Context, *report.Report) error { return nil }

type handlersFixture struct {
	h      *Handlers
	sender *fakeSender
	log    *logrus.Entry
}

func newHandlersFixture(t *testing.T) *handlersFixture {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	log := logrus.NewEntry(l)

	sections, err := report.NewSectionTable([]report.Section{
		{ID: "rehearsal", Label: "稽古"},
		{ID: "president", Label: "主宰"},
	})
	require.NoError(t, err)
	replies, err := autoreply.NewTable([]autoreply.Rule{{Trigger: "山", Reply: "川"}})
	require.NoError(t, err)

	sender := &fakeSender{}
	chatClient := NewDisgoAdapter(sender)
	reports := app.NewReportService(memstore.NewSessionStore(), discardReports{}, chatClient, sections, 0, time.Hour, log)
	reminders := app.NewReminderService(chatClient, memstore.NewReminderState(), reminder.Schedule{Hour: 22}, 99, log)

	return &handlersFixture{
		h:      NewHandlers(reports, reminders, replies, log),
		sender: sender,
		log:    log,
	}
}

func TestIsAdministrator(t *testing.T) {
	tests := []struct {
		name   string
		member *discord.ResolvedMember
		want   bool
	}{
		{name: "no member outside guild", member: nil, want: false},
		{name: "member without permissions", member: &discord.ResolvedMember{}, want: false},
		{name: "member with other permissions", member: &discord.ResolvedMember{Permissions: discord.PermissionSendMessages | discord.PermissionManageMessages}, want: false},
		{name: "administrator", member: &discord.ResolvedMember{Permissions: discord.PermissionAdministrator}, want: true},
		{name: "administrator among others", member: &discord.ResolvedMember{Permissions: discord.PermissionSendMessages | discord.PermissionAdministrator}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isAdministrator(tt.member))
		})
	}
}

func TestNicknameOf(t *testing.T) {
	nick := "たろう"
	assert.Equal(t, "", nicknameOf(nil))
	assert.Equal(t, "", nicknameOf(&discord.ResolvedMember{}))

	member := &discord.ResolvedMember{}
	member.Nick = &nick
	assert.Equal(t, "たろう", nicknameOf(member))
}

func TestManualReminderText(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, calendar.JST)

	t.Run("non administrator is rejected", func(t *testing.T) {
		f := newHandlersFixture(t)
		got := f.h.manualReminderText(context.Background(), f.log, &discord.ResolvedMember{}, now)
		assert.Equal(t, msgRemindAdminOnly, got)
		assert.Empty(t, f.sender.sent)
	})

	t.Run("missing member is rejected", func(t *testing.T) {
		f := newHandlersFixture(t)
		got := f.h.manualReminderText(context.Background(), f.log, nil, now)
		assert.Equal(t, msgRemindAdminOnly, got)
		assert.Empty(t, f.sender.sent)
	})

	t.Run("administrator sends reminder", func(t *testing.T) {
		f := newHandlersFixture(t)
		admin := &discord.ResolvedMember{Permissions: discord.PermissionAdministrator}
		got := f.h.manualReminderText(context.Background(), f.log, admin, now)
		assert.Equal(t, "手動リマインドを送信しました（2024-06-10）。", got)
		require.Len(t, f.sender.sent, 1)
		assert.Equal(t, uint64(99), uint64(f.sender.sent[0].channelID))
	})
}

func TestAutoReplyFor(t *testing.T) {
	f := newHandlersFixture(t)

	reply, ok := f.h.autoReplyFor(discord.Message{Content: "山"})
	assert.True(t, ok)
	assert.Equal(t, "川", reply)

	_, ok = f.h.autoReplyFor(discord.Message{Content: "山", Author: discord.User{Bot: true}})
	assert.False(t, ok, "bot authors are ignored")

	_, ok = f.h.autoReplyFor(discord.Message{Content: "山です"})
	assert.False(t, ok, "only exact text matches")
}

func TestDispatchComponent_OpenDailyShowsDateMenu(t *testing.T) {
	f := newHandlersFixture(t)
	r := &fakeResponder{}

	f.h.dispatchComponent(f.log, r, ButtonOpenDaily, "u1", nil)

	require.Len(t, r.created, 1)
	assert.Equal(t, msgPickDate, r.created[0].Content)
	assert.True(t, r.created[0].Flags.Has(discord.MessageFlagEphemeral))
	assert.Len(t, r.created[0].Components, 1)
}

func TestDispatchComponent_FullSelectionFlow(t *testing.T) {
	f := newHandlersFixture(t)
	ctx := context.Background()

	sess, days, err := f.h.reports.Start(ctx, "u1")
	require.NoError(t, err)
	dateKey := days[1].Key

	r := &fakeResponder{}
	f.h.dispatchComponent(f.log, r, withToken(prefixPickDate, sess.Token), "u1", []string{dateKey})
	require.Len(t, r.updated, 1)
	require.NotNil(t, r.updated[0].Content)
	assert.Equal(t, "日付: "+dateKey+"\n次にセクションを選んでください。", *r.updated[0].Content)
	assert.Empty(t, r.created)

	f.h.dispatchComponent(f.log, r, withToken(prefixPickSection, sess.Token), "u1", []string{"president"})
	require.Len(t, r.modals, 1)
	assert.Equal(t, withToken(prefixDailyForm, sess.Token), r.modals[0].CustomID)
}

func TestDispatchComponent_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		customID func(token string) string
		userID   string
		values   []string
		want     string
	}{
		{
			name:     "date menu without a value",
			customID: func(token string) string { return withToken(prefixPickDate, token) },
			userID:   "u1",
			want:     msgPickDate,
		},
		{
			name:     "section menu without a value",
			customID: func(token string) string { return withToken(prefixPickSection, token) },
			userID:   "u1",
			want:     msgStartOver,
		},
		{
			name:     "unknown session token",
			customID: func(string) string { return withToken(prefixPickDate, "gone") },
			userID:   "u1",
			values:   []string{"2024-06-10"},
			want:     msgSessionExpired,
		},
		{
			name:     "another member's menu",
			customID: func(token string) string { return withToken(prefixPickDate, token) },
			userID:   "u2",
			values:   []string{"2024-06-10"},
			want:     msgWrongUser,
		},
		{
			name:     "section before date",
			customID: func(token string) string { return withToken(prefixPickSection, token) },
			userID:   "u1",
			values:   []string{"president"},
			want:     msgStartOver,
		},
		{
			name:     "date that was not offered",
			customID: func(token string) string { return withToken(prefixPickDate, token) },
			userID:   "u1",
			values:   []string{"1999-01-01"},
			want:     msgStartOver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlersFixture(t)
			sess, _, err := f.h.reports.Start(context.Background(), "u1")
			require.NoError(t, err)

			r := &fakeResponder{}
			f.h.dispatchComponent(f.log, r, tt.customID(sess.Token), tt.userID, tt.values)

			require.Len(t, r.created, 1)
			assert.Equal(t, tt.want, r.created[0].Content)
			assert.True(t, r.created[0].Flags.Has(discord.MessageFlagEphemeral))
			assert.Empty(t, r.updated)
			assert.Empty(t, r.modals)
		})
	}
}

func TestDispatchComponent_UnknownIDIsIgnored(t *testing.T) {
	f := newHandlersFixture(t)
	r := &fakeResponder{}

	f.h.dispatchComponent(f.log, r, "something-else:tok", "u1", []string{"x"})

	assert.Empty(t, r.created)
	assert.Empty(t, r.updated)
	assert.Empty(t, r.modals)
}
