package discordbot

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"

	"daily_report_bot/internal/app"
	"daily_report_bot/internal/domain/calendar"
	"daily_report_bot/internal/domain/report"
	"daily_report_bot/internal/domain/session"
)

const (
	msgPickDate          = "まず日付を選んでください。"
	msgPickSectionFormat = "日付: %s\n次にセクションを選んでください。"
	msgInvalidMinutes    = "稼働時間は 0〜1440 の整数（分）で入力してください。"
	msgSavedAndPosted    = "日報を保存し、チャンネルに投稿しました。"
	msgSavedPostFailed   = "日報は保存しましたが、チャンネル投稿に失敗しました（ログ確認）。"
	msgSaved             = "日報を保存しました。"
	msgSaveFailed        = "保存に失敗しました（ログを確認してください）。"
	msgSessionExpired    = "入力の有効期限が切れました。/daily からやり直してください。"
	msgWrongUser         = "この操作は日報を書き始めたメンバーのみ行えます。"
	msgStartOver         = "操作の順序が正しくありません。/daily からやり直してください。"
	msgStartFailed       = "日報の入力を開始できませんでした（ログを確認してください）。"

	msgRemindNoChannel    = "DISCORD_REMIND_CHANNEL_ID が未設定です。"
	msgRemindAdminOnly    = "このコマンドは管理者のみ実行できます。"
	msgRemindSentFormat   = "手動リマインドを送信しました（%s）。"
	msgRemindFailed       = "送信に失敗しました（ログを確認してください）。"
	reminderContentFormat = "@everyone\n【日報リマインド】\n%s の日報を提出してください。\n必ず、必ず提出してください。"

	placeholderDate    = "日付を選んでください"
	placeholderSection = "セクションを選んでください"
	labelOpenDaily     = "日報を書く"
	formTitle          = "日報"
	notFilled          = "（未記入）"
	embedColor         = 0x5865F2
)

// Modal field ids.
const (
	fieldMinutes   = "minutes"
	fieldWork      = "work"
	fieldCondition = "condition"
	fieldComment   = "comment"
)

func ephemeral(content string) discord.MessageCreate {
	return discord.NewMessageCreate().
		WithContent(content).
		WithEphemeral(true)
}

func dateOptions(days []calendar.Day) []discord.StringSelectMenuOption {
	opts := make([]discord.StringSelectMenuOption, 0, len(days))
	for _, d := range days {
		opts = append(opts, discord.NewStringSelectMenuOption(d.Title(), d.Key).WithDescription(d.Relative()))
	}
	return opts
}

func sectionOptions(sections []report.Section) []discord.StringSelectMenuOption {
	opts := make([]discord.StringSelectMenuOption, 0, len(sections))
	for _, s := range sections {
		opts = append(opts, discord.NewStringSelectMenuOption(s.Label, s.ID))
	}
	return opts
}

func dateMenuMessage(token string, days []calendar.Day) discord.MessageCreate {
	menu := discord.NewStringSelectMenu(withToken(prefixPickDate, token), placeholderDate, dateOptions(days)...)
	return discord.NewMessageCreate().
		WithContent(msgPickDate).
		WithEphemeral(true).
		AddActionRow(menu)
}

func sectionMenuUpdate(token, dateKey string, sections []report.Section) discord.MessageUpdate {
	menu := discord.NewStringSelectMenu(withToken(prefixPickSection, token), placeholderSection, sectionOptions(sections)...)
	return discord.NewMessageUpdate().
		WithContent(fmt.Sprintf(msgPickSectionFormat, dateKey)).
		AddActionRow(menu)
}

func reportModal(token string) discord.ModalCreate {
	return discord.ModalCreate{
		CustomID: withToken(prefixDailyForm, token),
		Title:    formTitle,
		Components: []discord.LayoutComponent{
			discord.NewLabel("稼働時間（分・数字のみ）", discord.TextInputComponent{
				CustomID:  fieldMinutes,
				Style:     discord.TextInputStyleShort,
				Required:  true,
				MaxLength: 4,
			}),
			discord.NewLabel("主な作業内容", discord.TextInputComponent{
				CustomID: fieldWork,
				Style:    discord.TextInputStyleParagraph,
			}),
			discord.NewLabel("コンディション（任意）", discord.TextInputComponent{
				CustomID: fieldCondition,
				Style:    discord.TextInputStyleParagraph,
			}),
			discord.NewLabel("コメント（任意）", discord.TextInputComponent{
				CustomID: fieldComment,
				Style:    discord.TextInputStyleParagraph,
			}),
		},
	}
}

func reminderMessage(dateKey string) discord.MessageCreate {
	return discord.NewMessageCreate().
		WithContent(fmt.Sprintf(reminderContentFormat, dateKey)).
		AddActionRow(discord.NewPrimaryButton(labelOpenDaily, ButtonOpenDaily)).
		WithAllowedMentions(&discord.AllowedMentions{
			Parse: []discord.AllowedMentionType{discord.AllowedMentionTypeEveryone},
		})
}

func reportEmbed(r *report.Report) discord.Embed {
	work := r.Work
	if work == "" {
		work = notFilled
	}

	eb := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("--日報（%s）--", r.DateKey)).
		SetColor(embedColor).
		AddField("【提出者】", r.DisplayName, true).
		AddField("【セクション】", r.SectionLabel, true).
		AddField("【稼働時間】", fmt.Sprintf("%d 分", r.Minutes), true).
		AddField("【主な作業内容】", work, false)
	if r.Condition != "" {
		eb.AddField("【コンディション】", r.Condition, false)
	}
	if r.Comment != "" {
		eb.AddField("【コメント】", r.Comment, false)
	}
	return eb.SetTimestamp(r.SubmittedAt).Build()
}

// flowErrorReply maps a report flow error to the text shown to the member.
func flowErrorReply(err error) string {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		return msgSessionExpired
	case errors.Is(err, session.ErrWrongUser):
		return msgWrongUser
	case errors.Is(err, session.ErrUnexpectedState), errors.Is(err, session.ErrDateNotOffered):
		return msgStartOver
	case errors.Is(err, report.ErrInvalidMinutes):
		return msgInvalidMinutes
	default:
		return msgSaveFailed
	}
}

func submitReply(result *app.SubmitResult, err error) string {
	if err != nil {
		return flowErrorReply(err)
	}
	switch {
	case result.PostErr != nil:
		return msgSavedPostFailed
	case result.Posted:
		return msgSavedAndPosted
	default:
		return msgSaved
	}
}

func manualReminderReply(dateKey string, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf(msgRemindSentFormat, dateKey)
	case errors.Is(err, app.ErrReminderChannelNotConfigured):
		return msgRemindNoChannel
	case errors.Is(err, app.ErrNotAuthorized):
		return msgRemindAdminOnly
	default:
		return msgRemindFailed
	}
}
