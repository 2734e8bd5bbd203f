package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"station-mods/config"
	"station-mods/internal/mw"
	"station-mods/internal/store"
	"station-mods/internal/world"
)

// NewRouter creates and configures a new Gin router. s may be nil, in which case history and
// subscriptions answer 503.
func NewRouter(cfg config.ServerConfig, s store.Store, w *world.World, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, w, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, mw.ClientIP(cfg.RequestIPHeader))

	// Machine state moves every tick, so cached reads only absorb bursts of polling.
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 10*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Invalidate(cacheStore))
	{
		api.GET("/machines", caching, handler.ListMachines)
		api.GET("/machines/:id", caching, handler.GetMachine)
		api.GET("/machines/:id/history", caching, handler.GetMachineHistory)
		api.POST("/machines/:id/commands", handler.PostCommand)
		api.POST("/machines/:id/door", handler.PostDoor)
		api.POST("/machines/:id/refill", handler.PostRefill)

		api.GET("/garments/:id", caching, handler.GetGarment)
		api.POST("/accent", handler.PostAccent)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
