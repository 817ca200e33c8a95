package discordbot

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sirupsen/logrus"

	"daily_report_bot/internal/app"
	"daily_report_bot/internal/domain/autoreply"
)

const handlerTimeout = 15 * time.Second

// Handlers routes gateway events to the report and reminder services.
type Handlers struct {
	reports   *app.ReportService
	reminders *app.ReminderService
	replies   *autoreply.Table
	logger    *logrus.Entry
}

func NewHandlers(
	reports *app.ReportService,
	reminders *app.ReminderService,
	replies *autoreply.Table,
	logger *logrus.Entry,
) *Handlers {
	return &Handlers{
		reports:   reports,
		reminders: reminders,
		replies:   replies,
		logger:    logger,
	}
}

// Register attaches the handlers to client.
func (h *Handlers) Register(client *bot.Client) {
	client.AddEventListeners(
		bot.NewListenerFunc(h.onApplicationCommand),
		bot.NewListenerFunc(h.onComponent),
		bot.NewListenerFunc(h.onModalSubmit),
		bot.NewListenerFunc(h.onMessageCreate),
	)
}

type messageResponder interface {
	CreateMessage(messageCreate discord.MessageCreate, opts ...rest.RequestOpt) error
}

// componentResponder is what a component interaction can answer with.
type componentResponder interface {
	messageResponder
	UpdateMessage(messageUpdate discord.MessageUpdate, opts ...rest.RequestOpt) error
	Modal(modalCreate discord.ModalCreate, opts ...rest.RequestOpt) error
}

func (h *Handlers) safeGo(logCtx *logrus.Entry, f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logCtx.WithField("panic", r).WithField("stack", string(debug.Stack())).Error("Panic recovered in handler")
			}
		}()
		f()
	}()
}

func (h *Handlers) reply(logCtx *logrus.Entry, r messageResponder, msg discord.MessageCreate) {
	if err := r.CreateMessage(msg); err != nil {
		logCtx.WithError(err).Error("Failed to respond to interaction")
	}
}

func (h *Handlers) onApplicationCommand(e *events.ApplicationCommandInteractionCreate) {
	name := e.Data.CommandName()
	logCtx := h.logger.WithFields(logrus.Fields{
		"handler": "/" + name,
		"user_id": e.User().ID.String(),
	})

	switch name {
	case CommandDaily:
		h.safeGo(logCtx, func() { h.startReport(logCtx, e, e.User().ID.String()) })
	case CommandRemindDaily:
		h.safeGo(logCtx, func() { h.remindManually(logCtx, e) })
	default:
		logCtx.Warn("Unknown command")
	}
}

func (h *Handlers) startReport(logCtx *logrus.Entry, r messageResponder, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	sess, days, err := h.reports.Start(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to start report session")
		h.reply(logCtx, r, ephemeral(msgStartFailed))
		return
	}
	h.reply(logCtx, r, dateMenuMessage(sess.Token, days))
}

func (h *Handlers) remindManually(logCtx *logrus.Entry, e *events.ApplicationCommandInteractionCreate) {
	if err := e.DeferCreateMessage(true); err != nil {
		logCtx.WithError(err).Error("Failed to defer manual reminder response")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	content := h.manualReminderText(ctx, logCtx, e.Member(), time.Now())
	h.editDeferred(ctx, logCtx, e.Client(), e.ApplicationID(), e.Token(), content)
}

func (h *Handlers) manualReminderText(ctx context.Context, logCtx *logrus.Entry, member *discord.ResolvedMember, now time.Time) string {
	isAdmin := isAdministrator(member)
	dateKey, err := h.reminders.SendManual(ctx, isAdmin, now)
	if err != nil {
		logCtx.WithError(err).WithField("is_admin", isAdmin).Warn("Manual reminder not sent")
	}
	return manualReminderReply(dateKey, err)
}

// isAdministrator reports whether the invoking guild member holds the
// Administrator permission. Interactions outside a guild carry no member.
func isAdministrator(member *discord.ResolvedMember) bool {
	return member != nil && member.Permissions.Has(discord.PermissionAdministrator)
}

func (h *Handlers) onComponent(e *events.ComponentInteractionCreate) {
	customID := e.Data.CustomID()
	userID := e.User().ID.String()
	logCtx := h.logger.WithFields(logrus.Fields{
		"custom_id": customID,
		"user_id":   userID,
	})

	var values []string
	if data, ok := e.Data.(discord.StringSelectMenuInteractionData); ok {
		values = data.Values
	}
	h.safeGo(logCtx, func() { h.dispatchComponent(logCtx, e, customID, userID, values) })
}

func (h *Handlers) dispatchComponent(logCtx *logrus.Entry, r componentResponder, customID, userID string, values []string) {
	prefix, token := parseCustomID(customID)
	switch prefix {
	case ButtonOpenDaily:
		h.startReport(logCtx, r, userID)
	case prefixPickDate:
		h.pickDate(logCtx, r, token, userID, values)
	case prefixPickSection:
		h.pickSection(logCtx, r, token, userID, values)
	default:
		logCtx.Warn("Unhandled component interaction")
	}
}

func (h *Handlers) pickDate(logCtx *logrus.Entry, r componentResponder, token, userID string, values []string) {
	if len(values) == 0 {
		h.reply(logCtx, r, ephemeral(msgPickDate))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	sess, sections, err := h.reports.ChooseDate(ctx, token, userID, values[0])
	if err != nil {
		logCtx.WithError(err).Info("Date selection rejected")
		h.reply(logCtx, r, ephemeral(flowErrorReply(err)))
		return
	}
	if err := r.UpdateMessage(sectionMenuUpdate(token, sess.DateKey, sections)); err != nil {
		logCtx.WithError(err).Error("Failed to show section menu")
	}
}

func (h *Handlers) pickSection(logCtx *logrus.Entry, r componentResponder, token, userID string, values []string) {
	if len(values) == 0 {
		h.reply(logCtx, r, ephemeral(msgStartOver))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if _, err := h.reports.ChooseSection(ctx, token, userID, values[0]); err != nil {
		logCtx.WithError(err).Info("Section selection rejected")
		h.reply(logCtx, r, ephemeral(flowErrorReply(err)))
		return
	}
	if err := r.Modal(reportModal(token)); err != nil {
		logCtx.WithError(err).Error("Failed to open report form")
	}
}

func (h *Handlers) onModalSubmit(e *events.ModalSubmitInteractionCreate) {
	prefix, token := parseCustomID(e.Data.CustomID)
	if prefix != prefixDailyForm {
		h.logger.WithField("custom_id", e.Data.CustomID).Warn("Unhandled modal submit")
		return
	}

	user := e.User()
	logCtx := h.logger.WithFields(logrus.Fields{
		"handler": prefix,
		"user_id": user.ID.String(),
		"token":   token,
	})

	in := app.SubmissionInput{
		UserID:    user.ID.String(),
		Nickname:  nicknameOf(e.Member()),
		Username:  user.Username,
		Minutes:   e.Data.Text(fieldMinutes),
		Work:      e.Data.Text(fieldWork),
		Condition: e.Data.Text(fieldCondition),
		Comment:   e.Data.Text(fieldComment),
	}

	h.safeGo(logCtx, func() {
		if err := e.DeferCreateMessage(true); err != nil {
			logCtx.WithError(err).Error("Failed to defer report submission response")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		result, err := h.reports.Submit(ctx, token, in)
		if err != nil {
			logCtx.WithError(err).Warn("Report submission failed")
		}
		h.editDeferred(ctx, logCtx, e.Client(), e.ApplicationID(), e.Token(), submitReply(result, err))
	})
}

func (h *Handlers) editDeferred(ctx context.Context, logCtx *logrus.Entry, client *bot.Client, applicationID snowflake.ID, token, content string) {
	_, err := client.Rest.UpdateInteractionResponse(applicationID, token, discord.MessageUpdate{Content: &content}, rest.WithCtx(ctx))
	if err != nil {
		logCtx.WithError(err).Error("Failed to deliver deferred response")
	}
}

func (h *Handlers) onMessageCreate(e *events.MessageCreate) {
	reply, ok := h.autoReplyFor(e.Message)
	if !ok {
		return
	}

	logCtx := h.logger.WithFields(logrus.Fields{
		"handler":    "auto_reply",
		"channel_id": e.ChannelID.String(),
	})
	messageID := e.MessageID
	h.safeGo(logCtx, func() {
		msg := discord.MessageCreate{
			Content:          reply,
			MessageReference: &discord.MessageReference{MessageID: &messageID},
		}
		if _, err := e.Client().Rest.CreateMessage(e.ChannelID, msg); err != nil {
			logCtx.WithError(err).Error("Failed to send auto reply")
		}
	})
}

// autoReplyFor returns the canned reply for msg. Messages written by bots,
// this one included, never get a reply.
func (h *Handlers) autoReplyFor(msg discord.Message) (string, bool) {
	if msg.Author.Bot {
		return "", false
	}
	return h.replies.Match(msg.Content)
}

func nicknameOf(member *discord.ResolvedMember) string {
	if member == nil || member.Nick == nil {
		return ""
	}
	return *member.Nick
}
