package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	apperrors "sjsage522/offerwatch/pkg/errors"
)

// TelegramMessageLimit is the maximum text length of one Telegram message
const TelegramMessageLimit = 4096

// TelegramNotifier sends HTML messages to one chat
type TelegramNotifier struct {
	bot     *telego.Bot
	chatID  telego.ChatID
	timeout time.Duration
}

// Ensure TelegramNotifier implements Notifier
var _ Notifier = (*TelegramNotifier)(nil)

// TelegramOption customizes the underlying bot
type TelegramOption = telego.BotOption

// WithAPIServer points the bot at another Bot API server
func WithAPIServer(url string) TelegramOption {
	return telego.WithAPIServer(url)
}

// NewTelegramNotifier creates a notifier for chatID, which is either a
// numeric id or an @channel username. Every send is bounded by timeout.
func NewTelegramNotifier(token, chatID string, timeout time.Duration, opts ...TelegramOption) (*TelegramNotifier, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	options := append([]telego.BotOption{
		telego.WithHTTPClient(&http.Client{Timeout: timeout}),
		telego.WithDiscardLogger(),
	}, opts...)

	bot, err := telego.NewBot(token, options...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramNotifier{
		bot:     bot,
		chatID:  parseChatID(chatID),
		timeout: timeout,
	}, nil
}

func parseChatID(chatID string) telego.ChatID {
	chatID = strings.TrimSpace(chatID)
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return tu.ID(id)
	}
	if !strings.HasPrefix(chatID, "@") {
		chatID = "@" + chatID
	}
	return tu.Username(chatID)
}

// Name returns the channel name
func (t *TelegramNotifier) Name() string {
	return "telegram"
}

// Notify sends text in HTML parse mode, split into as many messages as the
// Telegram length limit requires.
func (t *TelegramNotifier) Notify(ctx context.Context, text string) error {
	for i, chunk := range splitMessage(text, TelegramMessageLimit) {
		sendCtx, cancel := context.WithTimeout(ctx, t.timeout)
		msg := tu.Message(t.chatID, chunk).WithParseMode(telego.ModeHTML)
		_, err := t.bot.SendMessage(sendCtx, msg)
		cancel()
		if err != nil {
			return apperrors.NewNotification(t.Name(), fmt.Sprintf("send message part %d", i+1), err)
		}
	}
	return nil
}
