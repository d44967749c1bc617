package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
)

// memStore is an in-memory stand-in for the MySQL repositories.
type memStore struct {
	mu       sync.Mutex
	bookings []models.Booking
	details  []models.BookingDetail
	allocs   []models.Allocation
	drivers  []models.Driver
	vehicles []models.Vehicle

	upsertErr error
	listErr   error
	upserts   int
	seq       int
}

func (m *memStore) ListActiveBookings(_ context.Context, ownerID string, statuses []models.BookingStatus, pickupFrom time.Time) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []models.Booking{}
	for _, b := range m.bookings {
		if b.OwnerID != ownerID || b.PickupAt.Before(pickupFrom) {
			continue
		}
		for _, st := range statuses {
			if b.Status == st {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) ListBookingDetails(_ context.Context, bookingIDs []string) ([]models.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[string]bool{}
	for _, id := range bookingIDs {
		want[id] = true
	}
	out := []models.BookingDetail{}
	for _, d := range m.details {
		if want[d.BookingID] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memStore) GetBookingDetail(_ context.Context, ownerID, detailID string) (models.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owners := map[string]string{}
	for _, b := range m.bookings {
		owners[b.ID] = b.OwnerID
	}
	for _, d := range m.details {
		if d.ID == detailID && owners[d.BookingID] == ownerID {
			return d, nil
		}
	}
	return models.BookingDetail{}, domain.NotFoundError{Resource: "booking detail"}
}

func (m *memStore) ListByOwner(_ context.Context, ownerID string) ([]models.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Allocation{}
	for _, a := range m.allocs {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) Upsert(_ context.Context, a models.Allocation, vehicleSupplied bool) (models.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	if m.upsertErr != nil {
		return models.Allocation{}, m.upsertErr
	}
	for i := len(m.allocs) - 1; i >= 0; i-- {
		if m.allocs[i].Key() != a.Key() {
			continue
		}
		m.allocs[i].DriverID = a.DriverID
		m.allocs[i].Confirmed = true
		if vehicleSupplied {
			m.allocs[i].VehicleID = a.VehicleID
		}
		return m.allocs[i], nil
	}
	m.seq++
	a.ID = fmt.Sprintf("alloc-%d", m.seq)
	a.Confirmed = true
	if !vehicleSupplied {
		a.VehicleID = ""
	}
	m.allocs = append(m.allocs, a)
	return a, nil
}

func (m *memStore) rowsFor(key models.LegKey) []models.Allocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Allocation
	for _, a := range m.allocs {
		if a.Key() == key {
			out = append(out, a)
		}
	}
	return out
}

type memDrivers struct{ *memStore }

func (m memDrivers) ListActive(_ context.Context, ownerID string) ([]models.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Driver{}
	for _, d := range m.drivers {
		if d.OwnerID == ownerID && d.Status == models.DriverActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m memDrivers) GetByID(_ context.Context, ownerID, driverID string) (models.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.drivers {
		if d.ID == driverID && d.OwnerID == ownerID {
			return d, nil
		}
	}
	return models.Driver{}, domain.NotFoundError{Resource: "driver"}
}

type memVehicles struct{ *memStore }

func (m memVehicles) ListAvailable(_ context.Context, ownerID string) ([]models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Vehicle{}
	for _, v := range m.vehicles {
		if v.OwnerID == ownerID && v.Status == models.VehicleAvailable {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m memVehicles) GetByID(_ context.Context, ownerID, vehicleID string) (models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.vehicles {
		if v.ID == vehicleID && v.OwnerID == ownerID {
			return v, nil
		}
	}
	return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
}

var (
	pickupD1 = time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC)
	dropD1   = time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	today    = time.Date(2024, 11, 19, 15, 30, 0, 0, time.UTC)
)

func detailD1() models.BookingDetail {
	return models.BookingDetail{
		ID:             "D1",
		BookingID:      "B1",
		Quantity:       1,
		VehicleID:      "V1",
		ModelName:      "Swift",
		Registration:   "B 1234 XY",
		Category:       "Hatchback",
		Fuel:           "Petrol",
		Transmission:   "Manual",
		CustomerName:   "Andi",
		PickupLocation: "Airport",
		DropLocation:   "Hotel",
		PickupAt:       pickupD1,
		DropAt:         dropD1,
	}
}

// newFixture seeds the example scenario: booking B1 with one detail D1, no allocations.
func newFixture() (*memStore, AllocationService) {
	st := &memStore{
		bookings: []models.Booking{{
			ID: "B1", OwnerID: "owner-1", CustomerName: "Andi",
			PickupLocation: "Airport", DropLocation: "Hotel",
			PickupAt: pickupD1, DropAt: dropD1, Status: models.BookingBooked, VehicleCount: 1,
		}},
		details: []models.BookingDetail{detailD1()},
		drivers: []models.Driver{
			{ID: "driver-42", OwnerID: "owner-1", Name: "Budi", Status: models.DriverActive},
			{ID: "driver-2", OwnerID: "owner-1", Name: "Sari", Status: models.DriverActive},
			{ID: "driver-off", OwnerID: "owner-1", Name: "Joko", Status: "inactive"},
			{ID: "driver-x", OwnerID: "owner-2", Name: "Other", Status: models.DriverActive},
		},
		vehicles: []models.Vehicle{
			{ID: "V1", OwnerID: "owner-1", Registration: "B 1234 XY", Status: "rented"},
			{ID: "V2", OwnerID: "owner-1", Registration: "B 5678 ZZ", Status: models.VehicleAvailable},
			{ID: "V9", OwnerID: "owner-2", Registration: "D 1 A", Status: models.VehicleAvailable},
		},
	}
	svc := AllocationService{
		Bookings:    st,
		Allocations: st,
		Drivers:     memDrivers{st},
		Vehicles:    memVehicles{st},
	}
	return st, svc
}
