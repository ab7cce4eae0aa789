package handler

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommand(t *testing.T) {
	command, args := splitCommand("/approve 12")
	assert.Equal(t, "/approve", command)
	assert.Equal(t, []string{"12"}, args)

	command, args = splitCommand("/start@AppealsBot")
	assert.Equal(t, "/start", command)
	assert.Empty(t, args)

	command, args = splitCommand("/view@AppealsBot 3 extra")
	assert.Equal(t, "/view", command)
	assert.Equal(t, []string{"3", "extra"}, args)

	command, args = splitCommand("   ")
	assert.Equal(t, "", command)
	assert.Nil(t, args)
}

func TestParseAppealID(t *testing.T) {
	id, err := parseAppealID([]string{"12"})
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	_, err = parseAppealID(nil)
	assert.Error(t, err)

	_, err = parseAppealID([]string{"abc"})
	assert.Error(t, err)

	_, err = parseAppealID([]string{"0"})
	assert.Error(t, err)

	_, err = parseAppealID([]string{"-3"})
	assert.Error(t, err)
}

func TestParseUserID(t *testing.T) {
	id, err := parseUserID([]string{"123456789"})
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), id)

	_, err = parseUserID(nil)
	assert.Error(t, err)

	_, err = parseUserID([]string{"nope"})
	assert.Error(t, err)
}

func TestParseDecisionData(t *testing.T) {
	verb, id, err := parseDecisionData("decision:approve:7")
	require.NoError(t, err)
	assert.Equal(t, "approve", verb)
	assert.Equal(t, uint(7), id)

	verb, id, err = parseDecisionData("decision:reject:42")
	require.NoError(t, err)
	assert.Equal(t, "reject", verb)
	assert.Equal(t, uint(42), id)

	_, _, err = parseDecisionData("decision:ban:7")
	assert.Error(t, err)

	_, _, err = parseDecisionData("decision:approve")
	assert.Error(t, err)

	_, _, err = parseDecisionData("decision:approve:x")
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "@someone (ID: 5)", displayName(5, "someone"))
	assert.Equal(t, "ID: 5", displayName(5, ""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 100))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
}

func TestSplitMessageShortPassthrough(t *testing.T) {
	chunks := splitMessage("hello", 4096)
	assert.Equal(t, []string{"hello"}, chunks)
}

func TestSplitMessagePrefersLineBoundaries(t *testing.T) {
	text := strings.Repeat("0123456789\n", 100)
	chunks := splitMessage(text, 64)

	require.Greater(t, len(chunks), 1)
	var total strings.Builder
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 64)
		assert.True(t, strings.HasSuffix(chunk, "\n"), "chunks should end on a line boundary")
		total.WriteString(chunk)
	}
	assert.Equal(t, text, total.String())
}

func TestSplitMessageHardCutsLongLines(t *testing.T) {
	text := strings.Repeat("x", 150)
	chunks := splitMessage(text, 64)

	var total strings.Builder
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 64)
		total.WriteString(chunk)
	}
	assert.Equal(t, text, total.String())
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5s", formatUptime(5*time.Second))
	assert.Equal(t, "2m 3s", formatUptime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1h 0m 0s", formatUptime(time.Hour))
	assert.Equal(t, "2d 1h 0m 5s", formatUptime(49*time.Hour+5*time.Second))
}
