package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"arena-chat/internal/service"
)

const defaultHistoryLimit = 50

// ChatHandler expone el envío de mensajes y la lectura del historial.
type ChatHandler struct {
	logger *zap.Logger
	chat   *service.ChatService
}

func NewChatHandler(logger *zap.Logger, chat *service.ChatService) *ChatHandler {
	return &ChatHandler{logger: logger, chat: chat}
}

// SendMessage maneja POST /api/chat/send. Requiere usuario autenticado y pasa
// antes por el rate limit de chat.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req struct {
		Content *string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid send message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Message content must be a string",
		})
		return
	}
	if req.Content == nil || *req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Message content is required",
		})
		return
	}

	content := *req.Content
	if len([]rune(content)) > 500 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Message cannot exceed 500 characters",
		})
		return
	}

	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	msg, err := h.chat.SendMessage(c.Request.Context(), claims.UserID, claims.WalletAddress, content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContentEmpty):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "Message content cannot be empty",
			})
		case errors.Is(err, service.ErrContentTooLong):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "Message cannot exceed 500 characters",
			})
		default:
			h.logger.Error("send chat message failed",
				zap.String("user_id", claims.UserID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to send message",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": msg,
	})
}

// GetHistory maneja GET /api/chat/history. Es una vista fija de los mensajes
// recientes, sin cursor de paginación.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	messages, err := h.chat.GetHistory(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("get chat history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to get chat history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": messages,
		"count":    len(messages),
	})
}
