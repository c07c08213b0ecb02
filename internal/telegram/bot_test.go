package telegram

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Martin09/GrandmaTVController/internal/infrastructure/config"
	"github.com/Martin09/GrandmaTVController/internal/infrastructure/logging"
	"github.com/Martin09/GrandmaTVController/internal/tvcontrol"
)

// fakeAPI records sent messages.
type fakeAPI struct {
	sent    []tgbotapi.Chattable
	updates chan tgbotapi.Update
}

func (a *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	a.sent = append(a.sent, c)
	return tgbotapi.Message{MessageID: len(a.sent)}, nil
}

func (a *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return a.updates
}

func (a *fakeAPI) StopReceivingUpdates() {}

// fakeCommander scripts Execute outcomes.
type fakeCommander struct {
	msg      string
	err      error
	executed []string
}

func (c *fakeCommander) Execute(_ context.Context, actionName string) (string, error) {
	c.executed = append(c.executed, actionName)
	return c.msg, c.err
}

func (c *fakeCommander) Actions() []string {
	return []string{"turn_on", "turn_off", "channel_1"}
}

const allowedChat = int64(1001)

func newTestBot(commander *fakeCommander) (*Bot, *fakeAPI) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 1)}
	cfg := config.TelegramConfig{
		BotToken:       "test-token",
		AllowedChatIDs: []int64{allowedChat},
	}
	return newWithAPI(cfg, api, commander, logging.Default()), api
}

func message(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{UserName: "tester"},
		Text: text,
	}
}

// lastMessageText extracts the text of the most recent sent MessageConfig
// or EditMessageTextConfig.
func lastMessageText(t *testing.T, api *fakeAPI) string {
	t.Helper()
	if len(api.sent) == 0 {
		t.Fatal("no messages sent")
	}
	switch m := api.sent[len(api.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return m.Text
	case tgbotapi.EditMessageTextConfig:
		return m.Text
	default:
		t.Fatalf("unexpected chattable type %T", m)
		return ""
	}
}

// =============================================================================
// Authorisation Tests
// =============================================================================

func TestBotRejectsUnknownChat(t *testing.T) {
	commander := &fakeCommander{}
	bot, api := newTestBot(commander)

	bot.handleMessage(context.Background(), message(9999, "/channel_1"))

	if len(commander.executed) != 0 {
		t.Errorf("executed = %v, want none for unauthorised chat", commander.executed)
	}
	if text := lastMessageText(t, api); !strings.Contains(text, "not authorised") {
		t.Errorf("reply = %q, want authorisation refusal", text)
	}
}

func TestBotEmptyAllowListDeniesAll(t *testing.T) {
	commander := &fakeCommander{}
	api := &fakeAPI{}
	bot := newWithAPI(config.TelegramConfig{BotToken: "t"}, api, commander, logging.Default())

	bot.handleMessage(context.Background(), message(allowedChat, "/channel_1"))

	if len(commander.executed) != 0 {
		t.Errorf("executed = %v, want none with empty allow-list", commander.executed)
	}
}

// =============================================================================
// Command Tests
// =============================================================================

func TestBotExecutesCommand(t *testing.T) {
	commander := &fakeCommander{msg: "Action 'channel_1' completed successfully!"}
	bot, api := newTestBot(commander)

	bot.handleMessage(context.Background(), message(allowedChat, "/channel_1"))

	if len(commander.executed) != 1 || commander.executed[0] != "channel_1" {
		t.Fatalf("executed = %v, want [channel_1]", commander.executed)
	}

	// Progress message first, then the result as an edit of it.
	if len(api.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(api.sent))
	}
	if text := lastMessageText(t, api); text != commander.msg {
		t.Errorf("result = %q", text)
	}
	if _, ok := api.sent[1].(tgbotapi.EditMessageTextConfig); !ok {
		t.Errorf("result sent as %T, want edit of the progress message", api.sent[1])
	}
}

func TestBotHelp(t *testing.T) {
	bot, api := newTestBot(&fakeCommander{})

	bot.handleMessage(context.Background(), message(allowedChat, "/start"))

	text := lastMessageText(t, api)
	for _, want := range []string{"/turn_on", "/turn_off", "/channel_1"} {
		if !strings.Contains(text, want) {
			t.Errorf("help = %q, missing %s", text, want)
		}
	}
}

func TestBotBusy(t *testing.T) {
	bot, api := newTestBot(&fakeCommander{err: tvcontrol.ErrBusy})

	bot.handleMessage(context.Background(), message(allowedChat, "/channel_1"))

	if text := lastMessageText(t, api); !strings.Contains(text, "already running") {
		t.Errorf("reply = %q, want busy notice", text)
	}
}

func TestBotUnknownCommand(t *testing.T) {
	bot, api := newTestBot(&fakeCommander{err: tvcontrol.ErrUnknownAction})

	bot.handleMessage(context.Background(), message(allowedChat, "/channel_9"))

	text := lastMessageText(t, api)
	if !strings.Contains(text, "Unknown command: channel_9") {
		t.Errorf("reply = %q, want unknown-command notice", text)
	}
	if !strings.Contains(text, "/channel_1") {
		t.Errorf("reply = %q, want help appended", text)
	}
}

func TestBotWakeAlias(t *testing.T) {
	commander := &fakeCommander{msg: "TV Wake-on-LAN sent."}
	bot, _ := newTestBot(commander)

	bot.handleMessage(context.Background(), message(allowedChat, "/wake"))

	if len(commander.executed) != 1 || commander.executed[0] != tvcontrol.ActionTurnOn {
		t.Errorf("executed = %v, want [turn_on]", commander.executed)
	}
}

// =============================================================================
// Run Loop Tests
// =============================================================================

func TestBotRunStopsOnContextCancel(t *testing.T) {
	bot, _ := newTestBot(&fakeCommander{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
