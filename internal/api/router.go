package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"parking-slot-backend/config"
	"parking-slot-backend/internal/model"
	"parking-slot-backend/internal/mw"
	"parking-slot-backend/internal/notification"
	"parking-slot-backend/internal/reservation"
	"parking-slot-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, engine *reservation.Coordinator, notifier *notification.WorkerPool, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, engine, cfg.Auth, webpushOptions, notifier)

	// Initialize middleware
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst, cfg.Server.RequestIPHeader)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	authRequired := mw.Auth(cfg.Auth)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)

		// Slot reads are public; the listing is cached briefly.
		api.GET("/slots", caching, GetSlots(s))
		api.GET("/slots/:slot_id", handler.GetSlot)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		authed := api.Group("")
		authed.Use(authRequired)
		{
			authed.POST("/slots/:slot_id/reserve", handler.ReserveSlot)
			authed.POST("/slots/:slot_id/release", handler.ReleaseSlot)

			authed.GET("/vehicles", handler.ListVehicles)
			authed.POST("/vehicles", handler.CreateVehicle)
			authed.DELETE("/vehicles/:plate", handler.DeleteVehicle)
		}

		admin := api.Group("/admin")
		admin.Use(authRequired, mw.RequireRole(model.RoleAdmin))
		{
			admin.POST("/slots/reset", handler.ResetSlots)
		}
	}

	return r
}
