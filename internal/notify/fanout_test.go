package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

type recordingSender struct {
	mu   sync.Mutex
	sent map[int64]string
	fail map[int64]error
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: make(map[int64]string), fail: make(map[int64]error)}
}

func (s *recordingSender) Send(_ context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[chatID]; err != nil {
		return err
	}
	s.sent[chatID] = text
	return nil
}

func testEntry() domain.ChangeEntry {
	return domain.ChangeEntry{
		ID:        uuid.New(),
		Day:       time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC),
		OldMask:   domain.MaskOf(0),
		NewMask:   domain.MaskOf(0, 1),
		ActorID:   100,
		ChangedAt: time.Now(),
	}
}

func TestFanout_DeliversToAllRecipients(t *testing.T) {
	t.Parallel()

	sender := newRecordingSender()
	f := NewFanout(slog.Default(), sender)

	err := f.Notify(context.Background(), testEntry(), []string{"alice"}, []string{"alice", "bob"}, []int64{10, 20, 30})

	require.NoError(t, err)
	assert.Len(t, sender.sent, 3)
	assert.Equal(t, sender.sent[10], sender.sent[20], "same rendered text for every recipient")
}

func TestFanout_OneFailureDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	sender := newRecordingSender()
	sender.fail[20] = errors.New("chat gone")
	f := NewFanout(slog.Default(), sender)

	err := f.Notify(context.Background(), testEntry(), nil, []string{"bob"}, []int64{10, 20, 30})

	require.NoError(t, err, "partial delivery is a success")
	assert.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent, int64(10))
	assert.Contains(t, sender.sent, int64(30))
}

func TestFanout_AllFailuresReturnsError(t *testing.T) {
	t.Parallel()

	sender := newRecordingSender()
	sender.fail[10] = errors.New("down")
	sender.fail[20] = errors.New("down")
	f := NewFanout(slog.Default(), sender)

	err := f.Notify(context.Background(), testEntry(), nil, nil, []int64{10, 20})

	assert.Error(t, err)
}

func TestFanout_NoRecipientsIsNoOp(t *testing.T) {
	t.Parallel()

	f := NewFanout(slog.Default(), newRecordingSender())
	err := f.Notify(context.Background(), testEntry(), nil, nil, nil)
	require.NoError(t, err)
}

func TestRenderChange_EmptyMaskRendersDash(t *testing.T) {
	t.Parallel()

	text := RenderChange(testEntry(), nil, []string{"alice"})
	assert.Contains(t, text, "07.03.2026")
	assert.Contains(t, text, "Was: —")
	assert.Contains(t, text, "Now: alice")
}
