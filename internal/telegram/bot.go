// Package telegram provides the Telegram bot front-end for the TV controller.
//
// The bot exists for the family, not for grandma: relatives send /channel_1
// or /turn_off from their phones to fix the TV remotely. Access is an
// allow-list of chat IDs with deny-by-default; an empty list means nobody
// can use the bot.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Martin09/GrandmaTVController/internal/infrastructure/config"
	"github.com/Martin09/GrandmaTVController/internal/infrastructure/logging"
	"github.com/Martin09/GrandmaTVController/internal/tvcontrol"
)

// Commander executes named actions. *tvcontrol.Service satisfies it.
type Commander interface {
	Execute(ctx context.Context, actionName string) (string, error)
	Actions() []string
}

// botAPI is the slice of tgbotapi.BotAPI the bot uses; tests substitute fakes.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram front-end.
type Bot struct {
	api       botAPI
	commander Commander
	allowed   map[int64]bool
	logger    *logging.Logger
}

// New creates a Bot connected to the Telegram API.
//
// Parameters:
//   - cfg: Telegram configuration (token and allow-list)
//   - commander: Command executor shared with the other front-ends
//   - logger: Logger instance
//
// Returns:
//   - *Bot: Ready to Run
//   - error: If the token is missing or Telegram rejects it
func New(cfg config.TelegramConfig, commander Commander, logger *logging.Logger) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("connecting to Telegram: %w", err)
	}

	logger.Info("telegram bot authorised", "username", api.Self.UserName)
	return newWithAPI(cfg, api, commander, logger), nil
}

// newWithAPI wires a Bot over an existing API client. Split from New so
// tests can inject a fake.
func newWithAPI(cfg config.TelegramConfig, api botAPI, commander Commander, logger *logging.Logger) *Bot {
	allowed := make(map[int64]bool, len(cfg.AllowedChatIDs))
	for _, id := range cfg.AllowedChatIDs {
		allowed[id] = true
	}

	return &Bot{
		api:       api,
		commander: commander,
		allowed:   allowed,
		logger:    logger,
	}
}

// Run processes updates until ctx is cancelled. Each command executes in
// the calling goroutine: the bot intentionally handles one message at a
// time, matching the one-command-at-a-time device gate.
func (b *Bot) Run(ctx context.Context) error {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30

	updates := b.api.GetUpdatesChan(updateCfg)
	b.logger.Info("telegram bot listening")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage authorises and dispatches one incoming message.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !b.allowed[chatID] {
		from := ""
		if msg.From != nil {
			from = msg.From.UserName
		}
		b.logger.Warn("rejected message from unauthorised chat",
			"chat_id", chatID,
			"from", from,
		)
		b.reply(chatID, "Sorry, you are not authorised to control this TV.")
		return
	}

	command := strings.TrimPrefix(strings.TrimSpace(msg.Text), "/")
	switch command {
	case "", "start", "help":
		b.reply(chatID, b.helpText())
		return
	case "wake":
		command = tvcontrol.ActionTurnOn
	}

	// Tell the sender something is happening; a wake cycle can take half
	// a minute and Telegram gives no other feedback until then.
	progress, sendErr := b.api.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Running %s…", command)))

	result, err := b.commander.Execute(ctx, command)
	switch {
	case err == nil:
		// result carries both success and failure wording
	case errors.Is(err, tvcontrol.ErrBusy):
		result = "Another command is already running, try again in a minute."
	case errors.Is(err, tvcontrol.ErrUnknownAction):
		result = fmt.Sprintf("Unknown command: %s\n\n%s", command, b.helpText())
	default:
		result = fmt.Sprintf("Something went wrong: %v", err)
	}

	if sendErr == nil && progress.MessageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, progress.MessageID, result)
		if _, err := b.api.Send(edit); err == nil {
			return
		}
	}
	b.reply(chatID, result)
}

// helpText lists every available command.
func (b *Bot) helpText() string {
	var sb strings.Builder
	sb.WriteString("I control grandma's TV. Available commands:\n")
	for _, action := range b.commander.Actions() {
		sb.WriteString("/")
		sb.WriteString(action)
		sb.WriteString("\n")
	}
	return sb.String()
}

// reply sends a plain text message, logging failures.
func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("failed to send telegram message", "chat_id", chatID, "error", err)
	}
}
