package discordbot

import "strings"

// Slash command names and component custom ids. Ids of the form
// "<prefix>:<token>" carry the report session token.
const (
	CommandDaily       = "daily"
	CommandRemindDaily = "reminddaily"

	ButtonOpenDaily = "open-daily"

	prefixPickDate    = "pick-date"
	prefixPickSection = "pick-section"
	prefixDailyForm   = "daily-form"
)

func withToken(prefix, token string) string {
	return prefix + ":" + token
}

// parseCustomID splits a custom id into its prefix and session token.
// Ids without a token return an empty token.
func parseCustomID(customID string) (prefix, token string) {
	prefix, token, _ = strings.Cut(customID, ":")
	return prefix, token
}
