package service

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"

	"tg-appeals/internal/logger"
	"tg-appeals/internal/models"
)

// MessageSender is the slice of the bot API the notifier needs.
// *telego.Bot satisfies it.
type MessageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// NotifyAdmins fans out the new-appeal notice to the owner and every admin,
// with inline approve/reject buttons bound to the appeal ID. Delivery
// failures are logged and skipped; the appeal is already persisted and
// stays discoverable via /pending. Returns the number of deliveries.
func NotifyAdmins(ctx context.Context, sender MessageSender, appeal *models.Appeal) int {
	recipients := NotificationRecipients()
	text := FormatAdminNotice(appeal)
	keyboard := DecisionKeyboard(appeal.ID)

	delivered := 0
	for _, recipientID := range recipients {
		_, err := sender.SendMessage(ctx, &telego.SendMessageParams{
			ChatID:      telego.ChatID{ID: recipientID},
			Text:        text,
			ReplyMarkup: keyboard,
		})
		if err != nil {
			logger.Errorf("Failed to notify admin %d about appeal #%d: %v", recipientID, appeal.ID, err)
			continue
		}
		delivered++
	}

	logger.Infof("Appeal #%d: notified %d/%d admins", appeal.ID, delivered, len(recipients))
	return delivered
}

// NotifyDecision tells the submitter the outcome of their appeal. Best
// effort: a delivery failure never rolls back the committed transition.
func NotifyDecision(ctx context.Context, sender MessageSender, appeal *models.Appeal) bool {
	_, err := sender.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: appeal.UserID},
		Text:   FormatDecisionNotice(appeal),
	})
	if err != nil {
		logger.Errorf("Failed to notify user %d about appeal #%d: %v", appeal.UserID, appeal.ID, err)
		return false
	}

	logger.Infof("User %d notified about %s appeal #%d", appeal.UserID, appeal.Status, appeal.ID)
	return true
}

// FormatAdminNotice composes the new-appeal summary sent to reviewers.
func FormatAdminNotice(appeal *models.Appeal) string {
	username := appeal.Username
	if username == "" {
		username = "No username"
	}

	text := fmt.Sprintf("🚨 New Appeal #%d\n"+
		"User: @%s (ID: %d)\n"+
		"Type: %s\n"+
		"Time: %s\n\n"+
		"📝 Appeal Text:\n%s\n\n"+
		"Use /approve %d to approve\n"+
		"Use /reject %d to reject\n\n"+
		"Use /pending to view all pending appeals",
		appeal.ID, username, appeal.UserID, appeal.Type.Label(),
		appeal.Timestamp.Format("15:04 02-01-2006"), appeal.Text,
		appeal.ID, appeal.ID)

	// Self-appeals by reviewers are allowed but flagged for transparency.
	if IsAuthorized(appeal.UserID) {
		text = "⚠️ Submitted by an administrator.\n\n" + text
	}
	return text
}

// FormatDecisionNotice composes the outcome message for the submitter.
func FormatDecisionNotice(appeal *models.Appeal) string {
	switch appeal.Status {
	case models.StatusApproved:
		return fmt.Sprintf("🎉 Your %s has been approved!\n"+
			"Appeal ID: #%d\n\n"+
			"Your appeal text:\n%s",
			appeal.Type.Label(), appeal.ID, appeal.Text)
	case models.StatusRejected:
		return fmt.Sprintf("❌ Your %s has been rejected.\n"+
			"Appeal ID: #%d\n\n"+
			"Your appeal text:\n%s\n\n"+
			"You may submit a new appeal with /appeal.",
			appeal.Type.Label(), appeal.ID, appeal.Text)
	}
	return fmt.Sprintf("Your %s #%d is %s.", appeal.Type.Label(), appeal.ID, appeal.Status)
}

// DecisionKeyboard builds the approve/reject buttons for an appeal.
func DecisionKeyboard(id uint) *telego.InlineKeyboardMarkup {
	return &telego.InlineKeyboardMarkup{
		InlineKeyboard: [][]telego.InlineKeyboardButton{
			{
				{Text: "✅ Approve", CallbackData: fmt.Sprintf("decision:approve:%d", id)},
				{Text: "❌ Reject", CallbackData: fmt.Sprintf("decision:reject:%d", id)},
			},
		},
	}
}
