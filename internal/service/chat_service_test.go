package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"arena-chat/internal/domain"
)

type mockMessageRepo struct {
	inserted  []domain.Message
	insertErr error
	listData  []domain.StoredMessage
	listErr   error
	lastLimit int
}

func (m *mockMessageRepo) Insert(_ context.Context, userID, content string) (domain.Message, error) {
	if m.insertErr != nil {
		return domain.Message{}, m.insertErr
	}
	msg := domain.Message{
		ID:        fmt.Sprintf("m%d", len(m.inserted)+1),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(len(m.inserted)) * time.Second),
	}
	m.inserted = append(m.inserted, msg)
	return msg, nil
}

func (m *mockMessageRepo) ListRecent(_ context.Context, limit int) ([]domain.StoredMessage, error) {
	m.lastLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listData, nil
}

type mockBroadcaster struct {
	events []domain.ChatMessage
}

func (m *mockBroadcaster) BroadcastChatMessage(msg domain.ChatMessage) {
	m.events = append(m.events, msg)
}

func newTestChatService(t *testing.T, repo *mockMessageRepo, b *mockBroadcaster) *ChatService {
	t.Helper()
	filter, err := NewProfanityFilter(DefaultBlocklist, '*')
	if err != nil {
		t.Fatalf("filter build failed: %v", err)
	}
	return NewChatService(zap.NewNop(), repo, b, filter)
}

func TestSendMessageRejectsTooLong(t *testing.T) {
	repo := &mockMessageRepo{}
	b := &mockBroadcaster{}
	svc := newTestChatService(t, repo, b)

	_, err := svc.SendMessage(context.Background(), "u1", "0x123456789012345678", strings.Repeat("a", 501))
	if !errors.Is(err, ErrContentTooLong) {
		t.Fatalf("expected ErrContentTooLong, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("rejected message must not be persisted")
	}
	if len(b.events) != 0 {
		t.Fatalf("rejected message must not be broadcast")
	}
}

func TestSendMessageAcceptsMaxLength(t *testing.T) {
	repo := &mockMessageRepo{}
	b := &mockBroadcaster{}
	svc := newTestChatService(t, repo, b)

	if _, err := svc.SendMessage(context.Background(), "u1", "0x123456789012345678", strings.Repeat("a", 500)); err != nil {
		t.Fatalf("500 characters is within the limit, got %v", err)
	}
}

func TestSendMessageRejectsEmpty(t *testing.T) {
	repo := &mockMessageRepo{}
	b := &mockBroadcaster{}
	svc := newTestChatService(t, repo, b)

	for _, content := range []string{"", "   ", "\n\t  "} {
		_, err := svc.SendMessage(context.Background(), "u1", "0x123456789012345678", content)
		if !errors.Is(err, ErrContentEmpty) {
			t.Fatalf("content %q: expected ErrContentEmpty, got %v", content, err)
		}
	}
	if len(repo.inserted) != 0 || len(b.events) != 0 {
		t.Fatalf("rejected messages must have no side effects")
	}
}

func TestSendMessageFiltersAndMasks(t *testing.T) {
	repo := &mockMessageRepo{}
	b := &mockBroadcaster{}
	svc := newTestChatService(t, repo, b)

	wallet := "0x123456789012345678" // 20 caracteres
	msg, err := svc.SendMessage(context.Background(), "u1", wallet, "fuck you")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if len(repo.inserted) != 1 || repo.inserted[0].Content != "**** you" {
		t.Fatalf("expected sanitized content persisted, got %+v", repo.inserted)
	}
	if msg.Content != "**** you" {
		t.Fatalf("expected sanitized content returned, got %q", msg.Content)
	}
	if msg.WalletAddress != "0x1234...5678" {
		t.Fatalf("expected masked wallet, got %q", msg.WalletAddress)
	}
	if msg.UserID != "u1" || msg.ID == "" {
		t.Fatalf("unexpected projection %+v", msg)
	}
	if _, err := time.Parse(time.RFC3339, msg.CreatedAt); err != nil {
		t.Fatalf("expected RFC3339 timestamp, got %q", msg.CreatedAt)
	}

	if len(b.events) != 1 {
		t.Fatalf("expected exactly one broadcast, got %d", len(b.events))
	}
	if b.events[0] != msg {
		t.Fatalf("broadcast payload must equal the returned message")
	}
}

func TestSendMessageTrimsBeforeFiltering(t *testing.T) {
	repo := &mockMessageRepo{}
	b := &mockBroadcaster{}
	svc := newTestChatService(t, repo, b)

	if _, err := svc.SendMessage(context.Background(), "u1", "w", "  hola  "); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if repo.inserted[0].Content != "hola" {
		t.Fatalf("expected trimmed content, got %q", repo.inserted[0].Content)
	}
}

func TestSendMessageStoreFailureSuppressesBroadcast(t *testing.T) {
	repo := &mockMessageRepo{insertErr: errors.New("db down")}
	b := &mockBroadcaster{}
	svc := newTestChatService(t, repo, b)

	_, err := svc.SendMessage(context.Background(), "u1", "0x123456789012345678", "hola")
	if err == nil {
		t.Fatalf("expected error on store failure")
	}
	if len(b.events) != 0 {
		t.Fatalf("nothing may be broadcast when persistence fails")
	}
}

func storedMsg(id, content string, at time.Time) domain.StoredMessage {
	return domain.StoredMessage{
		Message: domain.Message{
			ID:        id,
			UserID:    "u1",
			Content:   content,
			CreatedAt: at,
		},
		WalletAddress: "0xAAAABBBBCCCCDDDDEEEE",
	}
}

func TestGetHistoryReversesToChronologicalOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := &mockMessageRepo{
		// El store devuelve más-reciente-primero.
		listData: []domain.StoredMessage{
			storedMsg("m5", "cinco", base.Add(5*time.Second)),
			storedMsg("m4", "cuatro", base.Add(4*time.Second)),
			storedMsg("m3", "tres", base.Add(3*time.Second)),
		},
	}
	svc := newTestChatService(t, repo, &mockBroadcaster{})

	out, err := svc.GetHistory(context.Background(), 3)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if repo.lastLimit != 3 {
		t.Fatalf("expected limit 3 passed to store, got %d", repo.lastLimit)
	}
	if len(out) != 3 || out[0].ID != "m3" || out[1].ID != "m4" || out[2].ID != "m5" {
		t.Fatalf("expected ascending order m3,m4,m5, got %+v", out)
	}
	for _, msg := range out {
		if msg.WalletAddress != "0xAAAA...EEEE" {
			t.Fatalf("expected per-record masking, got %q", msg.WalletAddress)
		}
	}
}

func TestGetHistoryCapsLimit(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := newTestChatService(t, repo, &mockBroadcaster{})

	if _, err := svc.GetHistory(context.Background(), 100); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if repo.lastLimit != 50 {
		t.Fatalf("limit must be capped at 50, store saw %d", repo.lastLimit)
	}

	if _, err := svc.GetHistory(context.Background(), 0); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if repo.lastLimit != 50 {
		t.Fatalf("missing limit must default to 50, store saw %d", repo.lastLimit)
	}
}

func TestGetHistoryEmptyStore(t *testing.T) {
	svc := newTestChatService(t, &mockMessageRepo{}, &mockBroadcaster{})

	out, err := svc.GetHistory(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %+v", out)
	}
}

func TestGetHistoryStoreFailure(t *testing.T) {
	repo := &mockMessageRepo{listErr: errors.New("db down")}
	svc := newTestChatService(t, repo, &mockBroadcaster{})

	if _, err := svc.GetHistory(context.Background(), 10); err == nil {
		t.Fatalf("expected error from store failure")
	}
}
