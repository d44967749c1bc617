package services

import (
	"context"
	"strings"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/utils"

	"golang.org/x/sync/errgroup"
)

type BookingStore interface {
	ListActiveBookings(ctx context.Context, ownerID string, statuses []models.BookingStatus, pickupFrom time.Time) ([]models.Booking, error)
	ListBookingDetails(ctx context.Context, bookingIDs []string) ([]models.BookingDetail, error)
	GetBookingDetail(ctx context.Context, ownerID, detailID string) (models.BookingDetail, error)
}

type AllocationStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Allocation, error)
	Upsert(ctx context.Context, a models.Allocation, vehicleSupplied bool) (models.Allocation, error)
}

type DriverStore interface {
	ListActive(ctx context.Context, ownerID string) ([]models.Driver, error)
	GetByID(ctx context.Context, ownerID, driverID string) (models.Driver, error)
}

type VehicleStore interface {
	ListAvailable(ctx context.Context, ownerID string) ([]models.Vehicle, error)
	GetByID(ctx context.Context, ownerID, vehicleID string) (models.Vehicle, error)
}

const defaultWriteTimeout = 15 * time.Second

// AllocationService builds the leg worklist and assigns drivers/vehicles to legs.
type AllocationService struct {
	Bookings    BookingStore
	Allocations AllocationStore
	Drivers     DriverStore
	Vehicles    VehicleStore
	RequestID   string
	// WriteTimeout bounds an allocate write that outlives its request.
	WriteTimeout time.Duration
}

// Worklist is the sorted leg list plus the candidates a caller needs to act on it.
type Worklist struct {
	Legs     []models.Leg                    `json:"legs"`
	Drivers  []models.Driver                 `json:"drivers"`
	Vehicles []models.Vehicle                `json:"vehicles"`
	Warnings []domain.DataConsistencyWarning `json:"warnings,omitempty"`
}

// AllocateInput is the caller's selection for one leg.
type AllocateInput struct {
	DriverID  string `json:"driver_id"`
	VehicleID string `json:"vehicle_id"`
}

// Worklist loads active bookings with pickup from the start of now's day
// onward and returns their legs, unallocated first.
func (s AllocationService) Worklist(ctx context.Context, ownerID string, now time.Time) (Worklist, error) {
	var (
		bookings []models.Booking
		allocs   []models.Allocation
		drivers  []models.Driver
		vehicles []models.Vehicle
	)
	from := utils.StartOfDay(now)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bookings, err = s.Bookings.ListActiveBookings(gctx, ownerID, models.ActiveBookingStatuses, from)
		return storageErr("bookings.list_active", err)
	})
	g.Go(func() (err error) {
		allocs, err = s.Allocations.ListByOwner(gctx, ownerID)
		return storageErr("allocations.list", err)
	})
	g.Go(func() (err error) {
		drivers, err = s.Drivers.ListActive(gctx, ownerID)
		return storageErr("drivers.list_active", err)
	})
	g.Go(func() (err error) {
		vehicles, err = s.Vehicles.ListAvailable(gctx, ownerID)
		return storageErr("vehicles.list_available", err)
	})
	if err := g.Wait(); err != nil {
		utils.LogEvent(s.RequestID, "allocation", "worklist_error", err.Error())
		return Worklist{}, err
	}

	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	details, err := s.Bookings.ListBookingDetails(ctx, utils.UniqueNonEmpty(ids))
	if err != nil {
		err = storageErr("booking_details.list", err)
		utils.LogEvent(s.RequestID, "allocation", "worklist_error", err.Error())
		return Worklist{}, err
	}

	legs, warnings := DeriveLegs(details, allocs)
	for _, w := range warnings {
		utils.LogEvent(s.RequestID, "allocation", "duplicate_leg", w.Error())
	}
	legs = SortLegs(ResolveDisplayNames(legs, drivers, vehicles))

	utils.LogEventf(s.RequestID, "allocation", "worklist",
		"owner_id=%s bookings=%d legs=%d", ownerID, len(bookings), len(legs))

	return Worklist{
		Legs:     legs,
		Drivers:  drivers,
		Vehicles: vehicles,
		Warnings: warnings,
	}, nil
}

// LegFor derives a single leg of one of the owner's booking details.
func (s AllocationService) LegFor(ctx context.Context, ownerID string, key models.LegKey) (models.Leg, error) {
	if strings.TrimSpace(key.BookingDetailID) == "" {
		return models.Leg{}, domain.ValidationError{Field: "booking_detail_id", Msg: "id tidak valid"}
	}
	if key.Type != models.LegPick && key.Type != models.LegDrop {
		return models.Leg{}, domain.ValidationError{Field: "type", Msg: "harus Pick atau Drop"}
	}

	detail, err := s.Bookings.GetBookingDetail(ctx, ownerID, key.BookingDetailID)
	if err != nil {
		if domain.IsNotFound(err) || domain.IsValidation(err) {
			return models.Leg{}, err
		}
		return models.Leg{}, storageErr("booking_details.get", err)
	}
	allocs, err := s.Allocations.ListByOwner(ctx, ownerID)
	if err != nil {
		return models.Leg{}, storageErr("allocations.list", err)
	}

	legs, _ := DeriveLegs([]models.BookingDetail{detail}, allocs)
	for _, l := range legs {
		if l.Type == key.Type {
			return l, nil
		}
	}
	return models.Leg{}, domain.NotFoundError{Resource: "leg"}
}

// Allocate assigns a driver, and on Drop legs optionally a vehicle, to leg.
//
// Calling it again with the same input leaves the same single row. Omitting
// the vehicle keeps whatever vehicle the row already holds. A vehicle on a
// Pick leg is rejected.
func (s AllocationService) Allocate(ctx context.Context, ownerID string, leg models.Leg, in AllocateInput) (models.Allocation, error) {
	driverID := strings.TrimSpace(in.DriverID)
	vehicleID := strings.TrimSpace(in.VehicleID)

	if driverID == "" {
		return models.Allocation{}, domain.ValidationError{Field: "driver_id", Msg: "driver wajib dipilih"}
	}
	if strings.TrimSpace(leg.BookingDetailID) == "" {
		return models.Allocation{}, domain.ValidationError{Field: "booking_detail_id", Msg: "id tidak valid"}
	}
	switch leg.Type {
	case models.LegPick:
		if vehicleID != "" {
			return models.Allocation{}, domain.ValidationError{Field: "vehicle_id", Msg: "leg Pick tidak bisa diberi kendaraan"}
		}
	case models.LegDrop:
	default:
		return models.Allocation{}, domain.ValidationError{Field: "type", Msg: "harus Pick atau Drop"}
	}

	driver, err := s.Drivers.GetByID(ctx, ownerID, driverID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Allocation{}, domain.ValidationError{Field: "driver_id", Msg: "driver tidak ditemukan", Err: err}
		}
		return models.Allocation{}, storageErr("drivers.get", err)
	}
	if !strings.EqualFold(driver.Status, models.DriverActive) {
		return models.Allocation{}, domain.ValidationError{Field: "driver_id", Msg: "driver tidak aktif"}
	}

	// Any of the owner's vehicles is accepted here, not only available ones:
	// the drop itself frees the vehicle.
	if vehicleID != "" {
		if _, err := s.Vehicles.GetByID(ctx, ownerID, vehicleID); err != nil {
			if domain.IsNotFound(err) {
				return models.Allocation{}, domain.ValidationError{Field: "vehicle_id", Msg: "kendaraan tidak ditemukan", Err: err}
			}
			return models.Allocation{}, storageErr("vehicles.get", err)
		}
	}

	utils.LogEventf(s.RequestID, "allocation", "allocate", "leg=%s driver_id=%s vehicle_id=%s", leg.Key(), driverID, vehicleID)

	// The write is detached from the caller so a dropped request cannot
	// cancel it halfway; it still ends in commit or rollback.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout())
	defer cancel()

	saved, err := s.Allocations.Upsert(writeCtx, models.Allocation{
		OwnerID:         ownerID,
		BookingDetailID: leg.BookingDetailID,
		Type:            leg.Type,
		DriverID:        driverID,
		VehicleID:       vehicleID,
		Confirmed:       true,
		Location:        leg.Location,
		ScheduledAt:     leg.Time,
	}, vehicleID != "")
	if err != nil {
		if domain.IsValidation(err) {
			return models.Allocation{}, err
		}
		err = storageErr("allocations.upsert", err)
		utils.LogEvent(s.RequestID, "allocation", "allocate_error", err.Error())
		return models.Allocation{}, err
	}

	utils.LogEvent(s.RequestID, "allocation", "allocate_done", "allocation_id="+saved.ID)
	return saved, nil
}

func (s AllocationService) ActiveDrivers(ctx context.Context, ownerID string) ([]models.Driver, error) {
	out, err := s.Drivers.ListActive(ctx, ownerID)
	return out, storageErr("drivers.list_active", err)
}

func (s AllocationService) AvailableVehicles(ctx context.Context, ownerID string) ([]models.Vehicle, error) {
	out, err := s.Vehicles.ListAvailable(ctx, ownerID)
	return out, storageErr("vehicles.list_available", err)
}

func (s AllocationService) writeTimeout() time.Duration {
	if s.WriteTimeout > 0 {
		return s.WriteTimeout
	}
	return defaultWriteTimeout
}

func storageErr(op string, err error) error {
	if err == nil || domain.IsStorage(err) || domain.IsValidation(err) || domain.IsNotFound(err) {
		return err
	}
	return domain.StorageError{Op: op, Err: err}
}
