package llmclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReplyPlainJSON(t *testing.T) {
	raw := `{"is_valid": true, "summary": "Resumo.", "victim_name": "João da Silva", "location": "Copacabana", "date": "2024-05-09", "confidence": 0.9}`
	ev, err := ParseReply(raw)
	require.NoError(t, err)
	assert.True(t, ev.IsValid)
	require.NotNil(t, ev.VictimName)
	assert.Equal(t, "João da Silva", *ev.VictimName)
	assert.Equal(t, 0.9, ev.Confidence)
}

func TestParseReplyStripsJSONFence(t *testing.T) {
	raw := "```json\n{\"is_valid\": false, \"summary\": \"x\", \"confidence\": 0.2}\n```"
	ev, err := ParseReply(raw)
	require.NoError(t, err)
	assert.False(t, ev.IsValid)
	assert.Equal(t, 0.2, ev.Confidence)
}

func TestParseReplyStripsBareFence(t *testing.T) {
	raw := "```\n{\"is_valid\": true, \"summary\": \"x\"}\n```"
	ev, err := ParseReply(raw)
	require.NoError(t, err)
	assert.Equal(t, 0.5, ev.Confidence, "missing confidence defaults to 0.5")
}

func TestParseReplyMalformedErrors(t *testing.T) {
	_, err := ParseReply("not json at all")
	assert.Error(t, err)
}

func TestFallbackStub(t *testing.T) {
	ev := fallbackStub()
	assert.True(t, ev.IsValid)
	assert.Equal(t, "fallback", ev.Summary)
	assert.Equal(t, 0.5, ev.Confidence)
}
