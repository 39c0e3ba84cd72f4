package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/allinsys/contactforms/internal/models"
)

const telegramAPIBase = "https://api.telegram.org"

// Notifier is told about every stored contact
type Notifier interface {
	NotifyContact(ctx context.Context, contact *models.Contact) error
}

// TelegramService posts new contacts to a Telegram chat
type TelegramService struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

// NewTelegramService creates a new Telegram notifier.
// It returns nil when the bot token or chat ID is missing.
func NewTelegramService(botToken, chatID string) *TelegramService {
	if botToken == "" || chatID == "" {
		return nil
	}
	return &TelegramService{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  telegramAPIBase,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// telegramMessage represents a Telegram API message
type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// NotifyContact sends a summary of the stored contact to the configured chat
func (s *TelegramService) NotifyContact(ctx context.Context, contact *models.Contact) error {
	payload := telegramMessage{
		ChatID:    s.chatID,
		Text:      formatContactMessage(contact),
		ParseMode: "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}

func formatContactMessage(c *models.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🆕 <b>New contact from %s</b>\n\n", html.EscapeString(c.Website.String()))

	fields := []struct{ label, value string }{
		{"Name", c.FullName},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Business", c.BusinessName},
		{"Location", c.Location},
		{"Source", string(c.Source)},
		{"LinkedIn", c.LinkedIn},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(&b, "<b>%s:</b> %s\n", f.label, html.EscapeString(f.value))
	}
	fmt.Fprintf(&b, "<b>Objective:</b>\n%s", html.EscapeString(c.Objective))
	if c.Feedback != "" {
		fmt.Fprintf(&b, "\n<b>Feedback:</b>\n%s", html.EscapeString(c.Feedback))
	}
	return b.String()
}
