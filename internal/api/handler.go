package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"parking-slot-backend/config"
	"parking-slot-backend/internal/notification"
	"parking-slot-backend/internal/reservation"
	"parking-slot-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	engine   *reservation.Coordinator
	authCfg  config.AuthConfig
	webpush  *webpush.Options
	notifier *notification.WorkerPool
}

// NewHandler creates a new API handler. The notifier may be nil when push
// notifications are not configured.
func NewHandler(s store.Store, engine *reservation.Coordinator, authCfg config.AuthConfig, webpushOptions *webpush.Options, notifier *notification.WorkerPool) *Handler {
	return &Handler{
		store:    s,
		engine:   engine,
		authCfg:  authCfg,
		webpush:  webpushOptions,
		notifier: notifier,
	}
}
