// Package api exposes the intake pipeline and approval workflow over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/inbox/internal/events"
	"github.com/alexanderramin/inbox/internal/service"
)

// Handler binds HTTP routes to the intake and draft services.
type Handler struct {
	intake service.IntakeService
	drafts service.DraftService
	bus    *events.Bus
	logger *slog.Logger

	pingPeriod   time.Duration
	writeTimeout time.Duration

	maintenanceToken string
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithPingPeriod sets how often idle websocket streams are pinged.
func WithPingPeriod(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.pingPeriod = d
		}
	}
}

// WithMaintenanceToken enables /api/maintenance for callers presenting
// "Authorization: Bearer <token>".
func WithMaintenanceToken(token string) Option {
	return func(h *Handler) {
		h.maintenanceToken = strings.TrimSpace(token)
	}
}

func NewHandler(intake service.IntakeService, drafts service.DraftService, bus *events.Bus, opts ...Option) *Handler {
	h := &Handler{
		intake:       intake,
		drafts:       drafts,
		bus:          bus,
		logger:       slog.New(slog.DiscardHandler),
		pingPeriod:   54 * time.Second,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter builds the gin engine. requestLog enables gin's access log.
func NewRouter(h *Handler, requestLog bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if requestLog {
		r.Use(gin.Logger())
	}
	r.MaxMultipartMemory = 4 * MaxAttachmentBytes

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, &APIError{Code: ErrorNotFound, Message: "route not found"})
	})

	api := r.Group("/api", RequireUser())
	{
		intake := api.Group("/intake")
		{
			intake.POST("", h.Submit)
			intake.GET("/sessions/:id", h.GetSession)
			intake.POST("/sessions/:id/answers", h.AnswerClarification)
			intake.POST("/sessions/:id/alternative", h.ConfirmAlternative)
		}

		drafts := api.Group("/drafts")
		{
			drafts.GET("", h.ListPendingDrafts)
			drafts.GET("/:id", h.GetDraft)
			drafts.POST("/:id/decision", h.DecideDraft)
		}

		if h.bus != nil {
			api.GET("/events/ws", h.EventStream)
		}
	}

	// GC spans every user, so a user identity is not enough.
	if h.maintenanceToken != "" {
		maintenance := r.Group("/api/maintenance", RequireMaintenanceToken(h.maintenanceToken))
		maintenance.POST("/gc", h.RunGC)
	}
	return r
}
