package notify

import (
	"context"
	"log/slog"
)

// LogSender writes notifications to the log instead of a chat transport.
// Used when the process runs without a delivery channel configured.
type LogSender struct {
	log *slog.Logger
}

// NewLogSender creates a log-backed sender.
func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log.With("component", "notify")}
}

func (s *LogSender) Send(_ context.Context, chatID int64, text string) error {
	s.log.Info("notification", slog.Int64("chat_id", chatID), slog.String("text", text))
	return nil
}
