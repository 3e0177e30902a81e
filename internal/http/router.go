package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"arena-chat/internal/service"
	"arena-chat/internal/ws"
)

// NewRouter configura el router de Gin con middlewares y rutas del chat.
// El grupo de auth vive en la aplicación host; acá solo se exponen sus
// limitadores (ChallengeRateLimit, ConnectRateLimit, AuthRateLimit).
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	chatLimiter service.RateLimiter,
	chatH *ChatHandler,
	hub *ws.Hub,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	chat := r.Group("/api/chat")
	chat.POST("/send", JWTAuthMiddleware(jwtSvc), ChatMessageRateLimit(chatLimiter), chatH.SendMessage)
	chat.GET("/history", chatH.GetHistory)
	chat.GET("/ws", ws.ServeWS(hub, logger))

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
