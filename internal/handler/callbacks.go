package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-appeals/internal/logger"
	"tg-appeals/internal/models"
	"tg-appeals/internal/service"
)

// HandleCallbackQuery processes callback queries from inline keyboards
func HandleCallbackQuery(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery) error {
	// Skip if no data
	if query.Data == "" {
		return nil
	}

	logger.Infof("Received callback query from user %d: %s", query.From.ID, query.Data)

	if strings.HasPrefix(query.Data, "appeal:") {
		return handleAppealTypeCallback(ctx, bot, query)
	}
	if strings.HasPrefix(query.Data, "decision:") {
		return handleDecisionCallback(ctx, bot, query)
	}

	return nil
}

// handleAppealTypeCallback opens the collecting session for the selected
// appeal type and replaces the keyboard with the guideline template.
func handleAppealTypeCallback(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery) error {
	appealType, ok := models.ParseAppealType(strings.TrimPrefix(query.Data, "appeal:"))
	if !ok {
		logger.Warningf("Invalid appeal type in callback data: %s", query.Data)
		if err := editCallbackMessage(ctx, bot, query, "❌ Invalid appeal type."); err != nil {
			return err
		}
		return answerCallback(ctx, bot, query.ID, "")
	}

	// A new selection replaces any in-progress appeal for this user.
	service.Sessions().Open(query.From.ID, appealType)
	logger.Infof("User %d selected %s appeal type", query.From.ID, appealType)

	if err := editCallbackMessage(ctx, bot, query, appealTemplate(appealType)); err != nil {
		return err
	}
	return answerCallback(ctx, bot, query.ID, "")
}

// appealTemplate returns the fixed guideline text shown after the type
// selection.
func appealTemplate(appealType models.AppealType) string {
	switch appealType {
	case models.AppealTypeUnban:
		return "✍️ Please write and submit your unban appeal.\n\n" +
			"📝 Please write your appeal in detail. Example:\n" +
			"1. Why were you banned?\n" +
			"2. What have you learned from this experience?\n" +
			"3. Why should we unban you?\n" +
			"4. Any additional information?\n\n" +
			"Type your appeal now:"
	case models.AppealTypeAdmin:
		return "✍️ Please write and submit your admin request.\n\n" +
			"📝 Please write your admin request. Example:\n" +
			"1. Why do you want to be an admin?\n" +
			"2. What experience do you have?\n" +
			"3. How will you help the community?\n" +
			"4. Any additional information?\n\n" +
			"Type your request now:"
	}
	return "Type your appeal now:"
}

// handleDecisionCallback processes the approve/reject buttons attached to
// admin notifications. The authorization guard runs here as well because
// the notice may have been forwarded.
func handleDecisionCallback(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery) error {
	verb, id, err := parseDecisionData(query.Data)
	if err != nil {
		logger.Warningf("Invalid callback data in decision callback: %s", query.Data)
		return answerCallback(ctx, bot, query.ID, "")
	}

	if !service.IsAuthorized(query.From.ID) {
		logger.Warningf("User %d attempted decision callback: %s", query.From.ID, query.Data)
		return bot.AnswerCallbackQuery(ctx.Context(), &telego.AnswerCallbackQueryParams{
			CallbackQueryID: query.ID,
			Text:            "You don't have permission to decide appeals.",
			ShowAlert:       true,
		})
	}

	var appeal *models.Appeal
	if verb == "approve" {
		appeal, err = service.Approve(id, query.From.ID)
	} else {
		appeal, err = service.Reject(id, query.From.ID)
	}

	switch {
	case errors.Is(err, service.ErrAppealNotFound):
		return answerCallback(ctx, bot, query.ID, fmt.Sprintf("Appeal #%d not found.", id))
	case errors.Is(err, service.ErrAlreadyDecided):
		return answerCallback(ctx, bot, query.ID, fmt.Sprintf("Appeal #%d has already been processed.", id))
	case err != nil:
		logger.Errorf("Error processing decision callback %s: %v", query.Data, err)
		return answerCallback(ctx, bot, query.ID, "Database error. Please try again later.")
	}

	outcome := fmt.Sprintf("✅ Approved by admin %d", query.From.ID)
	short := fmt.Sprintf("Appeal #%d approved.", id)
	if appeal.Status == models.StatusRejected {
		outcome = fmt.Sprintf("❌ Rejected by admin %d", query.From.ID)
		short = fmt.Sprintf("Appeal #%d rejected.", id)
	}

	// Append the outcome to the notice and drop the buttons so other
	// admins see the appeal is settled.
	if accessibleMsg, ok := query.Message.(*telego.Message); ok {
		_, err := bot.EditMessageText(ctx.Context(), &telego.EditMessageTextParams{
			ChatID:      telego.ChatID{ID: accessibleMsg.Chat.ID},
			MessageID:   accessibleMsg.MessageID,
			Text:        accessibleMsg.Text + "\n\n" + outcome,
			ReplyMarkup: nil,
		})
		if err != nil {
			logger.Warningf("Error editing decision message: %v", err)
		}
	}

	if err := answerCallback(ctx, bot, query.ID, short); err != nil {
		logger.Warningf("Error answering callback query: %v", err)
	}

	service.NotifyDecision(ctx.Context(), bot, appeal)
	return nil
}

// editCallbackMessage rewrites the message the callback button belonged to.
func editCallbackMessage(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery, text string) error {
	if query.Message == nil {
		return nil
	}
	_, err := bot.EditMessageText(ctx.Context(), &telego.EditMessageTextParams{
		ChatID:    telego.ChatID{ID: query.Message.GetChat().ID},
		MessageID: query.Message.GetMessageID(),
		Text:      text,
	})
	return err
}

func answerCallback(ctx *th.Context, bot *telego.Bot, queryID, text string) error {
	return bot.AnswerCallbackQuery(ctx.Context(), &telego.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
	})
}
