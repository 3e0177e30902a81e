package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"arena-chat/internal/service"
)

// Política de admisión por clase de acción. Las ventanas y los máximos son
// contrato, no tuning: los clientes asumen estos valores.
const (
	ChallengeWindow = 15 * time.Minute
	ChallengeMax    = 10

	ConnectWindow = 15 * time.Minute
	ConnectMax    = 5

	AuthWindow = 15 * time.Minute
	AuthMax    = 20

	ChatMessageWindow = time.Minute
	ChatMessageMax    = 5
)

// KeySelector mapea una request a la key de rate limiting.
type KeySelector func(c *gin.Context) string

// ClientIPKey particiona por origen de red.
func ClientIPKey(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// AuthenticatedUserKey prefiere el user id autenticado y cae al origen de red
// cuando no hay sesión; como último recurso todo va a un bucket "unknown".
func AuthenticatedUserKey(c *gin.Context) string {
	if claims, ok := GetAuthClaims(c); ok && claims.UserID != "" {
		return claims.UserID
	}
	return ClientIPKey(c)
}

// RateLimitMiddleware corta con 429 y un aviso fijo cuando la key agotó su
// ventana. La acción protegida no se ejecuta en ese caso. Los headers
// RateLimit-* se emiten siempre, admitida o no.
func RateLimitMiddleware(limiter service.RateLimiter, key KeySelector, errTitle, advisory string) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := limiter.Admit(c.Request.Context(), key(c))

		c.Header("RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(result.Remaining))
		resetSeconds := int(time.Until(result.Reset).Seconds())
		if resetSeconds < 0 {
			resetSeconds = 0
		}
		c.Header("RateLimit-Reset", strconv.Itoa(resetSeconds))

		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   errTitle,
				"message": advisory,
			})
			return
		}
		c.Next()
	}
}

// ChallengeRateLimit protege la emisión de challenges de autenticación.
// Exportado para que el host monte sus rutas de auth con la misma política.
func ChallengeRateLimit(limiter service.RateLimiter) gin.HandlerFunc {
	return RateLimitMiddleware(limiter, ClientIPKey,
		"Too Many Requests",
		"Too many challenge requests from this IP, please try again after 15 minutes",
	)
}

// ConnectRateLimit protege el endpoint de conexión/autenticación, más
// estricto porque ahí ocurre la verificación de firma.
func ConnectRateLimit(limiter service.RateLimiter) gin.HandlerFunc {
	return RateLimitMiddleware(limiter, ClientIPKey,
		"Too Many Requests",
		"Too many authentication attempts from this IP, please try again after 15 minutes",
	)
}

// AuthRateLimit es el límite genérico de respaldo para el grupo de auth.
func AuthRateLimit(limiter service.RateLimiter) gin.HandlerFunc {
	return RateLimitMiddleware(limiter, ClientIPKey,
		"Too Many Requests",
		"Too many requests from this IP, please try again after 15 minutes",
	)
}

// ChatMessageRateLimit limita el envío de mensajes por usuario autenticado.
// Debe montarse después del middleware de JWT para que la key sea el user id.
func ChatMessageRateLimit(limiter service.RateLimiter) gin.HandlerFunc {
	return RateLimitMiddleware(limiter, AuthenticatedUserKey,
		"Too Many Messages",
		"You can only send 5 messages per minute. Please wait before sending another message.",
	)
}
