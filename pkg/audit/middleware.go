// Package audit provides middleware for auditing HTTP requests
package audit

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/semmi1986/SB-keyclock/pkg/client"
)

// Config holds the configuration for the audit middleware
type Config struct {
	// Source specifies the source of the audit events
	Source string
	// Logger receives one record per request. Defaults to slog.Default().
	Logger *slog.Logger
}

// Middleware handles HTTP request auditing
type Middleware struct {
	config Config
}

// NewMiddleware creates a new audit middleware instance
func NewMiddleware(config Config) *Middleware {
	if config.Source == "" {
		config.Source = "backend-resources"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Middleware{
		config: config,
	}
}

// AuditEvent represents an audit event
type AuditEvent struct {
	UserID    string
	Principal string
	URI       string
	Method    string
	Status    int
	Duration  time.Duration
	Message   string
	Timestamp time.Time
	Metadata  map[string]interface{}
}

// AuditAuthMiddleware records the caller, the request and the response
// status of every request passing through it
func (m *Middleware) AuditAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var event AuditEvent
		event.URI = r.RequestURI
		event.Method = r.Method
		event.Timestamp = time.Now()

		if authUser, ok := client.GetUserFromContext(ctx); ok {
			event.UserID = authUser.UserId
			event.Principal = authUser.Principal
		} else {
			event.Message = "No jwt token"
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		event.Status = ww.Status()
		if event.Status == 0 {
			event.Status = http.StatusOK
		}
		event.Duration = time.Since(event.Timestamp)
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			event = event.WithMetadata("request_id", reqID)
		}

		m.auditRequest(ctx, event)
	})
}

// auditRequest writes the audit record
func (m *Middleware) auditRequest(ctx context.Context, event AuditEvent) {
	level := slog.LevelInfo
	if event.Status >= http.StatusBadRequest {
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("source", m.config.Source),
		slog.String("user", event.UserID),
		slog.String("principal", event.Principal),
		slog.String("method", event.Method),
		slog.String("uri", event.URI),
		slog.Int("status", event.Status),
		slog.Duration("duration", event.Duration),
	}
	if event.Message != "" {
		attrs = append(attrs, slog.String("message", event.Message))
	}
	if len(event.Metadata) > 0 {
		attrs = append(attrs, slog.Any("metadata", event.Metadata))
	}

	m.config.Logger.LogAttrs(ctx, level, "audit", attrs...)
}

// WithMetadata adds metadata to the audit event
func (e AuditEvent) WithMetadata(key string, value interface{}) AuditEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}
