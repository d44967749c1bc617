package handlers

import (
	"context"
	"net/http"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/http/middleware"
	"fleetdesk/internal/services"

	"github.com/gin-gonic/gin"
)

type OwnerStore interface {
	GetByEmail(ctx context.Context, email string) (models.Owner, error)
}

// Handler serves the owner-scoped allocation API.
type Handler struct {
	Bookings    services.BookingStore
	Allocations services.AllocationStore
	Drivers     services.DriverStore
	Vehicles    services.VehicleStore
	Owners      OwnerStore

	JWTSecret []byte
	TokenTTL  time.Duration
	Now       func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) tokenTTL() time.Duration {
	if h.TokenTTL > 0 {
		return h.TokenTTL
	}
	return 24 * time.Hour
}

func (h *Handler) allocationService(c *gin.Context) services.AllocationService {
	return services.AllocationService{
		Bookings:    h.Bookings,
		Allocations: h.Allocations,
		Drivers:     h.Drivers,
		Vehicles:    h.Vehicles,
		RequestID:   middleware.GetRequestID(c),
	}
}

// owner returns the authenticated owner or writes 401.
func owner(c *gin.Context) (domain.RequestContext, bool) {
	rc, ok := middleware.Owner(c)
	if !ok || rc.OwnerID == "" {
		RespondError(c, http.StatusUnauthorized, "sesi tidak valid", nil)
		return domain.RequestContext{}, false
	}
	return rc, true
}
