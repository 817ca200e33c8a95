package discordbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCustomID(t *testing.T) {
	tests := []struct {
		id         string
		wantPrefix string
		wantToken  string
	}{
		{id: ButtonOpenDaily, wantPrefix: ButtonOpenDaily},
		{id: withToken(prefixPickDate, "abc"), wantPrefix: prefixPickDate, wantToken: "abc"},
		{id: withToken(prefixDailyForm, "1f0c-77"), wantPrefix: prefixDailyForm, wantToken: "1f0c-77"},
		{id: "pick-section:", wantPrefix: prefixPickSection},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			prefix, token := parseCustomID(tt.id)
			assert.Equal(t, tt.wantPrefix, prefix)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}
