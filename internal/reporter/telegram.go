package reporter

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"go-dashboard-verification/internal/config"
	"go-dashboard-verification/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramReporter struct {
	bot    sender
	chatID int64
}

func NewTelegramReporter(cfg *config.Config) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: cfg.TelegramChatID,
	}, nil
}

func (t *TelegramReporter) Name() string {
	return "telegram"
}

// Record sends the run summary followed by every screenshot as a photo.
func (t *TelegramReporter) Record(ctx context.Context, run *models.Run) error {
	if err := t.SendMessage(FormatSummary(run)); err != nil {
		return fmt.Errorf("failed to send summary: %w", err)
	}

	for _, shot := range run.Screenshots {
		if err := ctx.Err(); err != nil {
			return err
		}
		photo := tgbotapi.NewPhoto(t.chatID, tgbotapi.FilePath(shot.Path))
		photo.Caption = shot.Name
		if _, err := t.bot.Send(photo); err != nil {
			return fmt.Errorf("failed to send %s: %w", shot.Name, err)
		}
	}
	return nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

func FormatSummary(run *models.Run) string {
	icon := "✅"
	if run.Status != models.StatusPassed {
		icon = "❌"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>Dashboard verification %s</b>\n", icon, run.Status)
	fmt.Fprintf(&b, "🌐 %s\n", html.EscapeString(run.TargetURL))
	fmt.Fprintf(&b, "📸 %d screenshots\n", len(run.Screenshots))
	fmt.Fprintf(&b, "👁️ Privacy toggled: %s\n", yesNo(run.PrivacyToggled))
	fmt.Fprintf(&b, "📊 Origin chart found: %s\n", yesNo(run.OriginChartFound))
	fmt.Fprintf(&b, "⏱️ %s\n", run.Duration().Round(100*time.Millisecond))
	if run.Error != "" {
		fmt.Fprintf(&b, "⚠️ <code>%s</code>\n", html.EscapeString(run.Error))
	}
	fmt.Fprintf(&b, "🔖 %s", run.ID)
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
