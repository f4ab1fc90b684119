package handler

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig wires the handlers into a gin engine.
type RouterConfig struct {
	Chat      *ChatHandler
	Property  *PropertyHandler
	Feedback  *FeedbackHandler
	Embedding *EmbeddingHandler
	Health    *HealthHandler
	Limiter   *RateLimiter // nil disables rate limiting
	Metrics   http.Handler

	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// NewRouter builds the HTTP surface of the chatbot.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	corsConfig := cors.DefaultConfig()
	if origins := splitList(cfg.AllowedOrigins); len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	if methods := splitList(cfg.AllowedMethods); len(methods) > 0 {
		corsConfig.AllowMethods = methods
	}
	if headers := splitList(cfg.AllowedHeaders); len(headers) > 0 {
		corsConfig.AllowHeaders = headers
	}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/health", cfg.Health.Health)
	router.GET("/version", cfg.Health.Version)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.Limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{cfg.Limiter.Middleware(), h}
	}

	router.POST("/chat", limited(cfg.Chat.Chat)...)
	router.POST("/chat/stream", limited(cfg.Chat.ChatStream)...)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/chat", limited(cfg.Chat.Chat)...)
		apiV1.POST("/chat/stream", limited(cfg.Chat.ChatStream)...)
		apiV1.GET("/properties/:id", cfg.Property.GetProperty)
		apiV1.POST("/feedback", cfg.Feedback.Submit)
		apiV1.POST("/embeddings/batch", cfg.Embedding.BatchUpdate)
	}

	return router
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
