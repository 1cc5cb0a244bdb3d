package server

import (
	"context"
	"log/slog"

	"github.com/avi-perl/posthole/internal/config"
	"github.com/avi-perl/posthole/internal/events"
	"github.com/avi-perl/posthole/internal/service"
)

// Server exposes the record service over HTTP.
type Server struct {
	svc       *service.Service
	publisher events.Publisher
	endpoints config.Endpoints
	defaults  config.Defaults
}

// New returns a Server backed by the given service and publisher. Endpoint
// toggles and parameter defaults come from configuration.
func New(svc *service.Service, p events.Publisher, endpoints config.Endpoints, defaults config.Defaults) *Server {
	return &Server{
		svc:       svc,
		publisher: p,
		endpoints: endpoints,
		defaults:  defaults,
	}
}

// publish emits an event best-effort; failures are logged but never surface
// to the client.
func (s *Server) publish(ctx context.Context, topic string, itemID string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "item_id", itemID, "error", err)
	}
}

// inputError indicates invalid user input.
// The HTTP layer maps this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
