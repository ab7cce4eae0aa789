package handler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-appeals/internal/logger"
	"tg-appeals/internal/models"
	"tg-appeals/internal/service"
)

// handleCommand routes a slash command to its handler. Any command other
// than /appeal or /cancel silently abandons the sender's in-progress appeal
// session; nothing partial is persisted.
func handleCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	command, args := splitCommand(message.Text)

	if command != "/appeal" && command != "/cancel" {
		service.Sessions().Clear(message.From.ID)
	}

	switch command {
	case "/start":
		return handleStartCommand(ctx, bot, message)
	case "/help":
		return handleHelpCommand(ctx, bot, message)
	case "/appeal":
		return handleAppealCommand(ctx, bot, message)
	case "/cancel":
		return handleCancelCommand(ctx, bot, message)
	case "/ping":
		return handlePingCommand(ctx, bot, message)
	case "/pending":
		return requireAdmin(ctx, bot, message, func() error {
			return handlePendingCommand(ctx, bot, message)
		})
	case "/view":
		return requireAdmin(ctx, bot, message, func() error {
			return handleViewCommand(ctx, bot, message, args)
		})
	case "/approve":
		return requireAdmin(ctx, bot, message, func() error {
			return handleDecisionCommand(ctx, bot, message, args, models.StatusApproved)
		})
	case "/reject":
		return requireAdmin(ctx, bot, message, func() error {
			return handleDecisionCommand(ctx, bot, message, args, models.StatusRejected)
		})
	case "/stats":
		return requireAdmin(ctx, bot, message, func() error {
			return handleStatsCommand(ctx, bot, message)
		})
	case "/admins":
		return requireAdmin(ctx, bot, message, func() error {
			return handleAdminsCommand(ctx, bot, message)
		})
	case "/status":
		return requireAdmin(ctx, bot, message, func() error {
			return handleStatusCommand(ctx, bot, message)
		})
	case "/addadmin":
		return requireOwner(ctx, bot, message, func() error {
			return handleAddAdminCommand(ctx, bot, message, args)
		})
	case "/removeadmin":
		return requireOwner(ctx, bot, message, func() error {
			return handleRemoveAdminCommand(ctx, bot, message, args)
		})
	}

	// Unknown commands are ignored.
	return nil
}

// requireAdmin runs fn only when the sender is an authorized reviewer.
func requireAdmin(ctx *th.Context, bot *telego.Bot, message telego.Message, fn func() error) error {
	if !service.IsAuthorized(message.From.ID) {
		logger.Warningf("User %d attempted admin command: %s", message.From.ID, message.Text)
		return reply(ctx, bot, message.Chat.ID, "❌ Access denied.")
	}
	return fn()
}

// requireOwner runs fn only for the configured bot owner.
func requireOwner(ctx *th.Context, bot *telego.Bot, message telego.Message, fn func() error) error {
	if !service.IsOwner(message.From.ID) {
		logger.Warningf("User %d attempted owner command: %s", message.From.ID, message.Text)
		return reply(ctx, bot, message.Chat.ID, "❌ Access denied. Only the bot owner can use this command.")
	}
	return fn()
}

func handleStartCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	logger.Infof("User %d started the bot", message.From.ID)
	return reply(ctx, bot, message.Chat.ID,
		"📝 Welcome to the Appeals Bot!\n\n"+
			"Use /appeal to submit an unban appeal or request admin status.")
}

func handleHelpCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	helpText := "Available commands:\n" +
		"• /appeal - Submit an unban appeal or admin request\n" +
		"• /cancel - Cancel an appeal in progress\n" +
		"• /ping - Check that the bot is alive"

	if service.IsAuthorized(message.From.ID) {
		helpText += "\n\nAdmin commands:\n" +
			"• /pending - View pending appeals\n" +
			"• /view <appeal_id> - View full appeal details\n" +
			"• /approve <appeal_id> - Approve an appeal\n" +
			"• /reject <appeal_id> - Reject an appeal\n" +
			"• /stats - View appeal statistics\n" +
			"• /admins - List all admins\n" +
			"• /status - Show process status"
	}
	return reply(ctx, bot, message.Chat.ID, helpText)
}

// handleAppealCommand starts the appeal flow by offering the two appeal
// types. No session is opened until the user picks one.
func handleAppealCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	if message.Chat.Type != "private" {
		botUsername, _ := getBotUsername(ctx.Context(), bot)
		return reply(ctx, bot, message.Chat.ID,
			fmt.Sprintf("Appeals are handled in private chat. Please message @%s directly.", botUsername))
	}

	keyboard := &telego.InlineKeyboardMarkup{
		InlineKeyboard: [][]telego.InlineKeyboardButton{
			{{Text: "🔓 Unban Appeal", CallbackData: "appeal:unban"}},
			{{Text: "👑 Admin Request", CallbackData: "appeal:admin"}},
		},
	}

	_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: message.Chat.ID},
		Text:        "Select appeal type:",
		ReplyMarkup: keyboard,
	})
	if err != nil {
		return fmt.Errorf("sending appeal type keyboard: %w", err)
	}

	logger.Infof("User %d initiated appeal process", message.From.ID)
	return nil
}

func handleCancelCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	if service.Sessions().Get(message.From.ID) == nil {
		return reply(ctx, bot, message.Chat.ID, "You have no appeal in progress.")
	}
	service.Sessions().Clear(message.From.ID)
	return reply(ctx, bot, message.Chat.ID, "🚫 Appeal submission cancelled.")
}

// handlePingCommand measures the round trip of a message send and reports
// it together with the process uptime.
func handlePingCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	start := time.Now()
	sent, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: message.Chat.ID},
		Text:   "Checking ping...",
	})
	if err != nil {
		return fmt.Errorf("sending ping message: %w", err)
	}
	latency := time.Since(start)

	text := fmt.Sprintf("Pong!\n\n"+
		"Bot Ping: %dms\n"+
		"Uptime: %s\n"+
		"Last Check: %s",
		latency.Milliseconds(), formatUptime(Uptime()), time.Now().Format("15:04:05"))

	_, err = bot.EditMessageText(ctx.Context(), &telego.EditMessageTextParams{
		ChatID:    telego.ChatID{ID: message.Chat.ID},
		MessageID: sent.MessageID,
		Text:      text,
	})
	return err
}

func handlePendingCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	appeals, err := service.PendingAppeals()
	if err != nil {
		logger.Errorf("Error listing pending appeals: %v", err)
		return reply(ctx, bot, message.Chat.ID, "❌ Database error. Please try again later.")
	}

	if len(appeals) == 0 {
		return reply(ctx, bot, message.Chat.ID, "📋 No pending appeals!")
	}

	var sb strings.Builder
	sb.WriteString("📋 Pending Appeals:\n\n")
	for _, appeal := range appeals {
		sb.WriteString(fmt.Sprintf("ID: #%d\n", appeal.ID))
		sb.WriteString(fmt.Sprintf("User: %s\n", displayName(appeal.UserID, appeal.Username)))
		sb.WriteString(fmt.Sprintf("Type: %s\n", appeal.Type.Label()))
		sb.WriteString(fmt.Sprintf("Time: %s\n", appeal.Timestamp.Format("2006-01-02 15:04:05")))
		sb.WriteString(fmt.Sprintf("Text: %s\n", truncate(appeal.Text, 100)))
		sb.WriteString("───────────────\n")
	}

	// Telegram caps message length at 4096 characters.
	for _, chunk := range splitMessage(sb.String(), 4096) {
		if err := reply(ctx, bot, message.Chat.ID, chunk); err != nil {
			return err
		}
	}
	return nil
}

func handleViewCommand(ctx *th.Context, bot *telego.Bot, message telego.Message, args []string) error {
	id, err := parseAppealID(args)
	if err != nil {
		return reply(ctx, bot, message.Chat.ID, "❌ Usage: /view <appeal_id>")
	}

	appeal, err := service.GetAppeal(id)
	if errors.Is(err, service.ErrAppealNotFound) {
		return reply(ctx, bot, message.Chat.ID, fmt.Sprintf("❌ Appeal #%d not found.", id))
	}
	if err != nil {
		logger.Errorf("Error loading appeal #%d: %v", id, err)
		return reply(ctx, bot, message.Chat.ID, "❌ Database error. Please try again later.")
	}

	text := fmt.Sprintf("📄 Appeal Details #%d\n"+
		"User: %s\n"+
		"Type: %s\n"+
		"Status: %s\n"+
		"Time: %s\n\n"+
		"📝 Appeal Text:\n%s",
		appeal.ID, displayName(appeal.UserID, appeal.Username), appeal.Type.Label(),
		appeal.Status, appeal.Timestamp.Format("2006-01-02 15:04:05"), appeal.Text)

	if appeal.Status == models.StatusPending {
		text += fmt.Sprintf("\n\nUse /approve %d to approve\nUse /reject %d to reject", appeal.ID, appeal.ID)
	}
	return reply(ctx, bot, message.Chat.ID, text)
}

// handleDecisionCommand commits an approve or reject decision and notifies
// the submitter. Notification failure is reported to the admin but never
// rolls back the transition.
func handleDecisionCommand(ctx *th.Context, bot *telego.Bot, message telego.Message, args []string, status models.AppealStatus) error {
	command := "approve"
	if status == models.StatusRejected {
		command = "reject"
	}

	id, err := parseAppealID(args)
	if err != nil {
		return reply(ctx, bot, message.Chat.ID, fmt.Sprintf("❌ Usage: /%s <appeal_id>", command))
	}

	var appeal *models.Appeal
	if status == models.StatusApproved {
		appeal, err = service.Approve(id, message.From.ID)
	} else {
		appeal, err = service.Reject(id, message.From.ID)
	}

	switch {
	case errors.Is(err, service.ErrAppealNotFound):
		return reply(ctx, bot, message.Chat.ID, fmt.Sprintf("❌ Appeal #%d not found.", id))
	case errors.Is(err, service.ErrAlreadyDecided):
		return reply(ctx, bot, message.Chat.ID, fmt.Sprintf("❌ Appeal #%d has already been processed.", id))
	case err != nil:
		logger.Errorf("Error processing /%s %d: %v", command, id, err)
		return reply(ctx, bot, message.Chat.ID, "❌ Database error. Please try again later.")
	}

	confirmation := fmt.Sprintf("✅ Appeal #%d approved successfully!", id)
	if status == models.StatusRejected {
		confirmation = fmt.Sprintf("❌ Appeal #%d rejected.", id)
	}
	if err := reply(ctx, bot, message.Chat.ID, confirmation); err != nil {
		return err
	}

	if !service.NotifyDecision(ctx.Context(), bot, appeal) {
		return reply(ctx, bot, message.Chat.ID, fmt.Sprintf("Appeal %s but failed to notify the user.", status))
	}
	return nil
}

func handleStatsCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	stats, err := service.GetStats()
	if err != nil {
		logger.Errorf("Error collecting stats: %v", err)
		return reply(ctx, bot, message.Chat.ID, "❌ Database error. Please try again later.")
	}

	var typeLines strings.Builder
	for _, appealType := range []models.AppealType{models.AppealTypeUnban, models.AppealTypeAdmin} {
		typeLines.WriteString(fmt.Sprintf("• %s: %d\n", appealType.Label(), stats.ByType[appealType]))
	}

	text := fmt.Sprintf("<b>📊 Appeal Statistics</b>\n\n"+
		"<b>Total Appeals:</b> %d\n"+
		"<b>Pending:</b> %d\n"+
		"<b>Approved:</b> %d\n"+
		"<b>Rejected:</b> %d\n\n"+
		"<b>Recent Activity:</b>\n"+
		"• Last 24h: %d\n"+
		"• Last 7 days: %d\n\n"+
		"<b>By Appeal Type:</b>\n%s\n"+
		"<b>Active Admins:</b> %d\n\n"+
		"Use /pending to view pending appeals",
		stats.Total, stats.Pending, stats.Approved, stats.Rejected,
		stats.Last24h, stats.Last7d, typeLines.String(), stats.AdminCount)

	return replyHTML(ctx, bot, message.Chat.ID, text)
}

func handleAdminsCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	ids, err := service.AdminIDs()
	if err != nil {
		logger.Errorf("Error listing admins: %v", err)
		return reply(ctx, bot, message.Chat.ID, "❌ Database error. Please try again later.")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 Admin List (%d admins)\n\n", len(ids)))
	if len(ids) == 0 {
		sb.WriteString("No admins found.\n")
	}
	for _, id := range ids {
		sb.WriteString(fmt.Sprintf("• %d\n", id))
	}
	if globalConfig != nil && globalConfig.Bot.OwnerID != 0 {
		sb.WriteString(fmt.Sprintf("\n👑 Owner: %d", globalConfig.Bot.OwnerID))
	}
	return reply(ctx, bot, message.Chat.ID, sb.String())
}

func handleStatusCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	return reply(ctx, bot, message.Chat.ID, GetDetailedStatus())
}

func handleAddAdminCommand(ctx *th.Context, bot *telego.Bot, message telego.Message, args []string) error {
	id, err := parseUserID(args)
	if err != nil {
		return reply(ctx, bot, message.Chat.ID, "❌ Usage: /addadmin <user_id>")
	}

	err = service.AddAdmin(id, message.From.ID)
	switch {
	case errors.Is(err, service.ErrAdminExists):
		return reply(ctx, bot, message.Chat.ID, fmt.Sprintf("❌ User %d is already an admin.", id))
	case err != nil:
		logger.Errorf("Error adding admin %d: %v", id, err)
		return reply(ctx, bot, message.Chat.ID, "❌ Database error while adding admin.")
	}

	if err := reply(ctx, bot, message.Chat.ID, fmt.Sprintf("✅ User %d has been added as an admin.", id)); err != nil {
		return err
	}

	// Tell the new admin, best effort.
	_, err = bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: id},
		Text: "🎉 You have been granted admin access to the Appeals Bot!\n\n" +
			"Available admin commands:\n" +
			"• /pending - View pending appeals\n" +
			"• /view <appeal_id> - View full appeal details\n" +
			"• /approve <appeal_id> - Approve an appeal\n" +
			"• /reject <appeal_id> - Reject an appeal\n" +
			"• /stats - View appeal statistics\n" +
			"• /admins - List all admins",
	})
	if err != nil {
		logger.Errorf("Failed to notify new admin %d: %v", id, err)
		return reply(ctx, bot, message.Chat.ID, "Admin added but failed to notify them.")
	}
	return nil
}

func handleRemoveAdminCommand(ctx *th.Context, bot *telego.Bot, message telego.Message, args []string) error {
	id, err := parseUserID(args)
	if err != nil {
		return reply(ctx, bot, message.Chat.ID, "❌ Usage: /removeadmin <user_id>")
	}

	err = service.RemoveAdmin(id)
	switch {
	case errors.Is(err, service.ErrAdminNotFound):
		return reply(ctx, bot, message.Chat.ID, fmt.Sprintf("❌ User %d is not an admin.", id))
	case err != nil:
		logger.Errorf("Error removing admin %d: %v", id, err)
		return reply(ctx, bot, message.Chat.ID, "❌ Database error while removing admin.")
	}

	if err := reply(ctx, bot, message.Chat.ID, fmt.Sprintf("✅ User %d has been removed from admin list.", id)); err != nil {
		return err
	}

	_, err = bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: id},
		Text:   "🚫 Your admin access to the Appeals Bot has been revoked.",
	})
	if err != nil {
		logger.Errorf("Failed to notify removed admin %d: %v", id, err)
	}
	return nil
}
