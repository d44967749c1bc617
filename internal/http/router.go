package api

import (
	"log"
	stdhttp "net/http"

	intconfig "fleetdesk/internal/config"
	h "fleetdesk/internal/http/handlers"
	"fleetdesk/internal/http/middleware"
	"fleetdesk/internal/repositories"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the MySQL repositories behind the shared connection.
func NewRouter(env intconfig.Env) *gin.Engine {
	return NewRouterWith(env, &h.Handler{
		Bookings:    repositories.BookingRepository{},
		Allocations: repositories.AllocationRepository{},
		Drivers:     repositories.DriverRepository{},
		Vehicles:    repositories.VehicleRepository{},
		Owners:      repositories.OwnerRepository{},
	})
}

// NewRouterWith mounts routes on an explicit handler; tests pass fakes here.
func NewRouterWith(env intconfig.Env, hd *h.Handler) *gin.Engine {
	hd.JWTSecret = []byte(env.JWTSecret)
	hd.TokenTTL = env.TokenTTL

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", hd.Login)

		owned := api.Group("", middleware.OwnerAuth(hd.JWTSecret))

		allocations := owned.Group("/allocations")
		allocations.GET("/legs", hd.ListLegs)
		allocations.POST("/legs/preview", hd.PreviewLegs)
		allocations.POST("", hd.Allocate)
		allocations.GET("/duty-sheet", hd.DutySheet)

		owned.GET("/drivers/active", hd.ActiveDrivers)
		owned.GET("/vehicles/available", hd.AvailableVehicles)
	}

	return r
}
