package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"arena-chat/internal/domain"
	"arena-chat/internal/repository"
)

const (
	// maxContentLength es el largo máximo de un mensaje, medido sobre el
	// contenido crudo tal como llegó.
	maxContentLength = 500
	// maxHistoryLimit acota cuántos mensajes devuelve el historial, pida lo
	// que pida el cliente.
	maxHistoryLimit = 50
)

var (
	ErrContentEmpty   = errors.New("message content cannot be empty")
	ErrContentTooLong = errors.New("message exceeds maximum length of 500 characters")
)

// Broadcaster entrega un mensaje ya formateado a los viewers conectados.
// Es best-effort: no hay acuse de recibo ni señal de backpressure.
type Broadcaster interface {
	BroadcastChatMessage(msg domain.ChatMessage)
}

// ChatService orquesta el pipeline de ingestión: validar, filtrar, persistir,
// proyectar y difundir. También sirve lecturas acotadas del historial.
type ChatService struct {
	logger      *zap.Logger
	messages    repository.MessageRepository
	broadcaster Broadcaster
	filter      *ProfanityFilter
}

func NewChatService(
	logger *zap.Logger,
	messages repository.MessageRepository,
	broadcaster Broadcaster,
	filter *ProfanityFilter,
) *ChatService {
	return &ChatService{
		logger:      logger,
		messages:    messages,
		broadcaster: broadcaster,
		filter:      filter,
	}
}

// SendMessage valida y filtra el contenido, lo persiste, y recién con el
// mensaje ya durable lo difunde. Un fallo de difusión no hace fallar el
// envío: el resultado de la operación es el mensaje persistido.
func (s *ChatService) SendMessage(ctx context.Context, userID, walletAddress, content string) (domain.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return domain.ChatMessage{}, ErrContentEmpty
	}
	if len([]rune(content)) > maxContentLength {
		return domain.ChatMessage{}, ErrContentTooLong
	}

	filtered := s.filter.Filter(strings.TrimSpace(content))

	msg, err := s.messages.Insert(ctx, userID, filtered)
	if err != nil {
		s.logger.Error("store message failed", zap.String("user_id", userID), zap.Error(err))
		return domain.ChatMessage{}, fmt.Errorf("store message: %w", err)
	}

	chatMsg := toChatMessage(msg, walletAddress)
	s.broadcaster.BroadcastChatMessage(chatMsg)

	s.logger.Info("chat message sent",
		zap.String("user_id", userID),
		zap.String("message_id", msg.ID),
	)
	return chatMsg, nil
}

// GetHistory devuelve los últimos mensajes en orden cronológico ascendente,
// el orden natural de lectura de un chat. El límite efectivo nunca supera
// maxHistoryLimit; sin límite pedido se usa ese máximo.
func (s *ChatService) GetHistory(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	stored, err := s.messages.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error("list messages failed", zap.Error(err))
		return nil, fmt.Errorf("list messages: %w", err)
	}

	// El store devuelve más-reciente-primero; acá se invierte.
	out := make([]domain.ChatMessage, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, toChatMessage(stored[i].Message, stored[i].WalletAddress))
	}
	return out, nil
}

func toChatMessage(msg domain.Message, walletAddress string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:            msg.ID,
		UserID:        msg.UserID,
		WalletAddress: MaskAddress(walletAddress),
		Content:       msg.Content,
		CreatedAt:     msg.CreatedAt.UTC().Format(time.RFC3339),
	}
}
