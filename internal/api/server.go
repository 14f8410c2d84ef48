// Package api exposes the transcript service over HTTP: media staging,
// transcription, and the session review surface.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/transcriptai/transcript-service/internal/config"
	"github.com/transcriptai/transcript-service/internal/observability"
	"github.com/transcriptai/transcript-service/internal/orchestrator"
	"github.com/transcriptai/transcript-service/internal/session"
	"github.com/transcriptai/transcript-service/internal/storage"
)

// allowedMIMEPrefixes lists the media types accepted for transcription
var allowedMIMEPrefixes = []string{"video/", "audio/"}

// Server wires the HTTP routes to the service components
type Server struct {
	cfg         *config.Config
	store       storage.Store // nil when staging is not configured
	transcriber *orchestrator.Transcriber
	session     *session.Store
}

// NewServer creates the HTTP surface over the given components
func NewServer(cfg *config.Config, store storage.Store, transcriber *orchestrator.Transcriber, sess *session.Store) *Server {
	return &Server{
		cfg:         cfg,
		store:       store,
		transcriber: transcriber,
		session:     sess,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.POST("/upload-url", s.handleUploadURL)
		api.POST("/transcribe", s.handleTranscribe)

		api.GET("/session", s.handleGetSession)
		api.POST("/session/media", s.handleSetMedia)
		api.PATCH("/session/segments/:id", s.handleEditSegment)
		api.POST("/session/reset", s.handleReset)
		api.GET("/session/transcript.txt", s.handleDownloadTranscript)
		api.GET("/session/events", s.handleEvents)
	}

	router.GET("/health", gin.WrapF(observability.HealthCheckHandler()))
	router.GET("/ready", gin.WrapF(observability.ReadinessHandler(s.readinessChecks())))

	if s.cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return router
}

// statusForKind maps the error taxonomy onto HTTP status codes. The
// caller's retry/backoff policy depends on these staying distinct.
func statusForKind(kind orchestrator.ErrorKind) int {
	switch kind {
	case orchestrator.KindInput:
		return http.StatusBadRequest
	case orchestrator.KindEmptyTranscript:
		return http.StatusUnprocessableEntity
	case orchestrator.KindQuota:
		return http.StatusTooManyRequests
	case orchestrator.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		// Configuration, storage, and uncategorized failures.
		return http.StatusInternalServerError
	}
}

func allowedMediaType(mimeType string) bool {
	for _, prefix := range allowedMIMEPrefixes {
		if strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}
