package models

import (
	"fmt"
	"strings"
	"time"
)

// LegType is the direction of a leg: the pickup half or the drop half of a booking.
type LegType string

const (
	LegPick LegType = "Pick"
	LegDrop LegType = "Drop"
)

// ParseLegType accepts "pick"/"drop" in any case.
func ParseLegType(s string) (LegType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pick":
		return LegPick, nil
	case "drop":
		return LegDrop, nil
	}
	return "", fmt.Errorf("unknown leg type %q", s)
}

// LegKey identifies a leg. Allocations are unique per key.
type LegKey struct {
	BookingDetailID string  `json:"booking_detail_id"`
	Type            LegType `json:"type"`
}

func (k LegKey) String() string {
	return k.BookingDetailID + "/" + string(k.Type)
}

// Allocation assigns a driver, and for Drop legs optionally a vehicle, to one leg.
type Allocation struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	BookingDetailID string    `json:"booking_detail_id"`
	Type            LegType   `json:"type"`
	DriverID        string    `json:"driver_id"`
	DriverName      string    `json:"driver_name,omitempty"`
	VehicleID       string    `json:"vehicle_id,omitempty"`
	Registration    string    `json:"registration,omitempty"`
	Confirmed       bool      `json:"confirmed"`
	Location        string    `json:"location"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (a Allocation) Key() LegKey {
	return LegKey{BookingDetailID: a.BookingDetailID, Type: a.Type}
}
