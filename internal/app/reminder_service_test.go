package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_bot/internal/domain/calendar"
	"daily_report_bot/internal/domain/reminder"
	"daily_report_bot/internal/infra/memstore"
)

const remindChannel = snowflake.ID(7)

func jst(day, hour, minute int) time.Time {
	return time.Date(2024, 6, day, hour, minute, 0, 0, calendar.JST)
}

func newReminderService(client *fakeChatClient, channel snowflake.ID) *ReminderService {
	return NewReminderService(client, memstore.NewReminderState(), reminder.Schedule{Hour: 22, Minute: 0}, channel, discardLogger())
}

func TestReminderService_TickSendsOncePerDay(t *testing.T) {
	ctx := context.Background()
	client := &fakeChatClient{}
	svc := newReminderService(client, remindChannel)

	var sent []bool
	for _, now := range []time.Time{jst(10, 21, 59), jst(10, 22, 0), jst(10, 22, 0), jst(10, 22, 1)} {
		ok, err := svc.Tick(ctx, now)
		require.NoError(t, err)
		sent = append(sent, ok)
	}

	assert.Equal(t, []bool{false, true, false, false}, sent)
	require.Len(t, client.reminders, 1)
	assert.Equal(t, "2024-06-10", client.reminders[0].dateKey)
	assert.Equal(t, remindChannel, client.reminders[0].channelID)

	// Next day fires again.
	ok, err := svc.Tick(ctx, jst(11, 22, 0))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, client.reminders, 2)
}

func TestReminderService_TickDisabledWithoutChannel(t *testing.T) {
	client := &fakeChatClient{}
	svc := newReminderService(client, 0)

	ok, err := svc.Tick(context.Background(), jst(10, 22, 0))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, client.reminders)
}

func TestReminderService_FailedSendIsNotRetriedSameDay(t *testing.T) {
	ctx := context.Background()
	client := &fakeChatClient{reminderErr: errors.New("missing access")}
	svc := newReminderService(client, remindChannel)

	_, err := svc.Tick(ctx, jst(10, 22, 0))
	assert.Error(t, err)

	client.reminderErr = nil
	ok, err := svc.Tick(ctx, jst(10, 22, 0))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, client.reminders)
}

func TestReminderService_StateWriteFailureSendsNothing(t *testing.T) {
	client := &fakeChatClient{}
	svc := NewReminderService(client, failingState{}, reminder.Schedule{Hour: 22}, remindChannel, discardLogger())

	ok, err := svc.Tick(context.Background(), jst(10, 22, 0))
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Empty(t, client.reminders)
}

func TestReminderService_SendManual(t *testing.T) {
	ctx := context.Background()

	t.Run("non-admin is rejected without sending", func(t *testing.T) {
		client := &fakeChatClient{}
		svc := newReminderService(client, remindChannel)

		_, err := svc.SendManual(ctx, false, jst(10, 9, 0))
		assert.ErrorIs(t, err, ErrNotAuthorized)
		assert.Empty(t, client.reminders)
	})

	t.Run("admin sends immediately", func(t *testing.T) {
		client := &fakeChatClient{}
		svc := newReminderService(client, remindChannel)

		dateKey, err := svc.SendManual(ctx, true, jst(10, 9, 0))
		require.NoError(t, err)
		assert.Equal(t, "2024-06-10", dateKey)
		assert.Len(t, client.reminders, 1)

		// The manual send does not consume the automatic reminder.
		ok, err := svc.Tick(ctx, jst(10, 22, 0))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no channel configured", func(t *testing.T) {
		client := &fakeChatClient{}
		svc := newReminderService(client, 0)

		_, err := svc.SendManual(ctx, true, jst(10, 9, 0))
		assert.ErrorIs(t, err, ErrReminderChannelNotConfigured)
		assert.Empty(t, client.reminders)
	})
}
