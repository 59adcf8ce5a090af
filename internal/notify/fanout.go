// Package notify delivers change notifications to admin chats.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

// Sender delivers one message to one chat. Implementations wrap the actual
// transport (Telegram in production, a recorder in tests).
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Fanout delivers a change entry to every recipient concurrently. One
// recipient's failure never blocks delivery to the others.
type Fanout struct {
	sender Sender
	log    *slog.Logger
}

// NewFanout creates a new notification fan-out.
func NewFanout(log *slog.Logger, sender Sender) *Fanout {
	return &Fanout{
		sender: sender,
		log:    log.With("component", "notify"),
	}
}

// Notify renders the entry once and sends it to each recipient. Per-recipient
// failures are logged; the returned error is non-nil only when every delivery
// failed, so a single dead chat does not suppress the notified flag.
func (f *Fanout) Notify(ctx context.Context, entry domain.ChangeEntry, oldNames, newNames []string, recipients []int64) error {
	if len(recipients) == 0 {
		return nil
	}

	text := RenderChange(entry, oldNames, newNames)

	var g errgroup.Group
	failures := make([]error, len(recipients))
	for i, chatID := range recipients {
		i, chatID := i, chatID
		g.Go(func() error {
			if err := f.sender.Send(ctx, chatID, text); err != nil {
				f.log.WarnContext(ctx, "send change notification",
					slog.Int64("chat_id", chatID), "error", err)
				failures[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	delivered := 0
	for _, err := range failures {
		if err == nil {
			delivered++
		}
	}
	if delivered == 0 {
		return fmt.Errorf("all %d deliveries failed: %w", len(recipients), failures[0])
	}
	return nil
}

// RenderChange formats a ledger entry as a human-readable message.
func RenderChange(entry domain.ChangeEntry, oldNames, newNames []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Schedule changed for %s\n", entry.Day.Format("02.01.2006"))
	fmt.Fprintf(&b, "Was: %s\n", joinOrDash(oldNames))
	fmt.Fprintf(&b, "Now: %s", joinOrDash(newNames))
	return b.String()
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "—"
	}
	return strings.Join(names, ", ")
}
