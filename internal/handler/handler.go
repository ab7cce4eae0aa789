package handler

import (
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-appeals/internal/config"
	"tg-appeals/internal/logger"
	"tg-appeals/internal/service"
)

var globalConfig *config.Config

// Initialize initializes the handler with configuration
func Initialize(cfg *config.Config) {
	globalConfig = cfg
	service.Initialize(cfg)
}

// SetupMessageHandlers configures all bot message and callback handlers
func SetupMessageHandlers(bh *th.BotHandler, bot *telego.Bot) {
	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		incrementCounter(&totalMessagesProcessed)

		// Skip if no sender information or sender is a bot
		if message.From == nil || message.From.IsBot {
			return nil
		}

		var err error
		if strings.HasPrefix(message.Text, "/") {
			err = handleCommand(ctx, bot, message)
		} else {
			err = handleFreeText(ctx, bot, message)
		}
		if err != nil {
			incrementCounter(&totalErrors)
			logger.Errorf("Error handling message from user %d: %v", message.From.ID, err)
		}
		return err
	})

	bh.HandleCallbackQuery(func(ctx *th.Context, query telego.CallbackQuery) error {
		incrementCounter(&totalCallbackQueries)

		err := HandleCallbackQuery(ctx, bot, query)
		if err != nil {
			incrementCounter(&totalErrors)
			logger.Errorf("Error handling callback query from user %d: %v", query.From.ID, err)
		}
		return err
	})
}
