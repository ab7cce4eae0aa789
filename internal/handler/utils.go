package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

// splitCommand separates a message into the command and its arguments,
// stripping a trailing @BotName mention from the command.
func splitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	command := strings.SplitN(fields[0], "@", 2)[0]
	return command, fields[1:]
}

// parseAppealID extracts an appeal ID from command arguments.
func parseAppealID(args []string) (uint, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing appeal ID")
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid appeal ID: %q", args[0])
	}
	return uint(id), nil
}

// parseDecisionData unpacks "decision:<verb>:<id>" callback data.
func parseDecisionData(data string) (string, uint, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != "decision" {
		return "", 0, fmt.Errorf("invalid decision data format: %s", data)
	}
	verb := parts[1]
	if verb != "approve" && verb != "reject" {
		return "", 0, fmt.Errorf("invalid decision verb: %s", verb)
	}
	id, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil || id == 0 {
		return "", 0, fmt.Errorf("invalid appeal ID: %q", parts[2])
	}
	return verb, uint(id), nil
}

// parseUserID extracts a Telegram user ID from command arguments.
func parseUserID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing user ID")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user ID: %q", args[0])
	}
	return id, nil
}

func reply(ctx *th.Context, bot *telego.Bot, chatID int64, text string) error {
	_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	return err
}

func replyHTML(ctx *th.Context, bot *telego.Bot, chatID int64, text string) error {
	_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: "HTML",
	})
	return err
}

// getBotUsername retrieves the bot's username
func getBotUsername(ctx context.Context, bot *telego.Bot) (string, error) {
	botUser, err := bot.GetMe(ctx)
	if err != nil {
		return "", err
	}
	return botUser.Username, nil
}

// displayName renders a user reference for admin-facing lists.
func displayName(userID int64, username string) string {
	if username == "" {
		return fmt.Sprintf("ID: %d", userID)
	}
	return fmt.Sprintf("@%s (ID: %d)", username, userID)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// splitMessage splits text into chunks of at most limit bytes, preferring
// line boundaries.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if current.Len()+len(line) > limit && current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		// A single line longer than the limit is cut hard.
		for len(line) > limit {
			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// formatUptime renders a duration as d/h/m/s, dropping leading zero units.
func formatUptime(d time.Duration) string {
	seconds := int64(d.Seconds())
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	seconds = seconds % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
