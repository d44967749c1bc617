package handlers

import (
	"net/http"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/http/middleware"
	"fleetdesk/internal/services"

	"github.com/gin-gonic/gin"
)

// legSelection names a leg plus the driver/vehicle chosen for it.
type legSelection struct {
	BookingDetailID string `json:"booking_detail_id"`
	Type            string `json:"type"`
	DriverID        string `json:"driver_id"`
	VehicleID       string `json:"vehicle_id"`
}

type previewRequest struct {
	Edits []legSelection `json:"edits"`
}

func parseLegKey(detailID, legType string) (models.LegKey, error) {
	lt, err := models.ParseLegType(legType)
	if err != nil {
		return models.LegKey{}, domain.ValidationError{Field: "type", Msg: "harus Pick atau Drop", Err: err}
	}
	if detailID == "" {
		return models.LegKey{}, domain.ValidationError{Field: "booking_detail_id", Msg: "wajib diisi"}
	}
	return models.LegKey{BookingDetailID: detailID, Type: lt}, nil
}

func worklistResponse(wl services.Worklist, legs []models.Leg) gin.H {
	open := 0
	for _, l := range legs {
		if !l.IsAllocated {
			open++
		}
	}
	warnings := wl.Warnings
	if warnings == nil {
		warnings = []domain.DataConsistencyWarning{}
	}
	return gin.H{
		"legs":     legs,
		"drivers":  wl.Drivers,
		"vehicles": wl.Vehicles,
		"warnings": warnings,
		"total":    len(legs),
		"open":     open,
	}
}

// GET /api/allocations/legs
func (h *Handler) ListLegs(c *gin.Context) {
	rc, ok := owner(c)
	if !ok {
		return
	}
	wl, err := h.allocationService(c).Worklist(c.Request.Context(), rc.OwnerID, h.now())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, worklistResponse(wl, wl.Legs))
}

// POST /api/allocations/legs/preview
//
// Re-projects the worklist with unsaved selections applied; nothing is written.
func (h *Handler) PreviewLegs(c *gin.Context) {
	rc, ok := owner(c)
	if !ok {
		return
	}
	var req previewRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	edits := make(map[models.LegKey]models.PendingEdit, len(req.Edits))
	for _, e := range req.Edits {
		key, err := parseLegKey(e.BookingDetailID, e.Type)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		edits[key] = models.PendingEdit{DriverID: e.DriverID, VehicleID: e.VehicleID}
	}

	wl, err := h.allocationService(c).Worklist(c.Request.Context(), rc.OwnerID, h.now())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	legs := services.ApplyPendingEdits(wl.Legs, edits, wl.Drivers, wl.Vehicles)
	c.JSON(http.StatusOK, worklistResponse(wl, legs))
}

// POST /api/allocations
func (h *Handler) Allocate(c *gin.Context) {
	rc, ok := owner(c)
	if !ok {
		return
	}
	var req legSelection
	if !BindJSONOrError(c, &req) {
		return
	}
	key, err := parseLegKey(req.BookingDetailID, req.Type)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	svc := h.allocationService(c)
	leg, err := svc.LegFor(c.Request.Context(), rc.OwnerID, key)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	saved, err := svc.Allocate(c.Request.Context(), rc.OwnerID, leg, services.AllocateInput{
		DriverID:  req.DriverID,
		VehicleID: req.VehicleID,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "alokasi tersimpan",
		"allocation": saved,
		"request_id": middleware.GetRequestID(c),
	})
}

// GET /api/allocations/duty-sheet
func (h *Handler) DutySheet(c *gin.Context) {
	rc, ok := owner(c)
	if !ok {
		return
	}
	now := h.now()
	wl, err := h.allocationService(c).Worklist(c.Request.Context(), rc.OwnerID, now)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	docs := services.DocsService{RequestID: middleware.GetRequestID(c)}
	pdfBytes, filename, err := docs.GenerateDutySheet(rc.Email, wl.Legs, now)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /api/drivers/active
func (h *Handler) ActiveDrivers(c *gin.Context) {
	rc, ok := owner(c)
	if !ok {
		return
	}
	drivers, err := h.allocationService(c).ActiveDrivers(c.Request.Context(), rc.OwnerID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

// GET /api/vehicles/available
func (h *Handler) AvailableVehicles(c *gin.Context) {
	rc, ok := owner(c)
	if !ok {
		return
	}
	vehicles, err := h.allocationService(c).AvailableVehicles(c.Request.Context(), rc.OwnerID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}
