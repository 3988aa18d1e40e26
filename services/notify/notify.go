package notify

import (
	"fmt"

	"github.com/matheuscscp/splitynab/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type (
	// Service sends human-readable messages about syncs.
	Service interface {
		Send(text string) error
	}

	telegramService struct {
		client *tgbotapi.BotAPI
		chatID int64
	}

	noopService struct{}
)

// NewService returns a Telegram notifier, or a no-op one when no bot token is configured.
func NewService(conf *config.Telegram) (Service, error) {
	if conf.Token == "" {
		return noopService{}, nil
	}
	return NewServiceWithEndpoint(conf, tgbotapi.APIEndpoint)
}

// NewServiceWithEndpoint is NewService against a custom Bot API endpoint.
func NewServiceWithEndpoint(conf *config.Telegram, endpoint string) (Service, error) {
	client, err := tgbotapi.NewBotAPIWithAPIEndpoint(conf.Token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("error creating Telegram Bot API client: %w", err)
	}
	logrus.Infof("Authenticated on Telegram bot account %s", client.Self.UserName)
	return &telegramService{
		client: client,
		chatID: conf.ChatID,
	}, nil
}

func (t *telegramService) Send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.client.Send(msg); err != nil {
		return fmt.Errorf("error sending Telegram message: %w", err)
	}
	logrus.Infof("[%s] %s", t.client.Self.UserName, text)
	return nil
}

func (noopService) Send(text string) error {
	return nil
}
