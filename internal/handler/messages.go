package handler

import (
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-appeals/internal/logger"
	"tg-appeals/internal/service"
)

// handleFreeText completes an appeal when the sender has an open session:
// the first text message after the type selection becomes the appeal body.
// Messages from users without a session are ignored.
func handleFreeText(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	if message.Chat.Type != "private" || message.Text == "" {
		return nil
	}

	session := service.Sessions().Get(message.From.ID)
	if session == nil {
		return nil
	}

	appeal, err := service.SubmitAppeal(message.From.ID, message.From.Username, session.Type, message.Text)
	if err != nil {
		// Keep the session so the user can resend the text after a
		// transient storage failure.
		logger.Errorf("Error submitting appeal for user %d: %v", message.From.ID, err)
		return reply(ctx, bot, message.Chat.ID, "❌ Database error. Please try again later.")
	}

	service.Sessions().Clear(message.From.ID)

	confirmation := fmt.Sprintf("✅ %s submitted successfully!\n"+
		"Appeal ID: #%d\n\n"+
		"Your appeal will be reviewed by an admin.",
		appeal.Type.Label(), appeal.ID)
	if err := reply(ctx, bot, message.Chat.ID, confirmation); err != nil {
		logger.Errorf("Error confirming appeal #%d to user %d: %v", appeal.ID, message.From.ID, err)
	}

	service.NotifyAdmins(ctx.Context(), bot, appeal)
	return nil
}
