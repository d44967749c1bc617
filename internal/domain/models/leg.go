package models

import "time"

// Leg is derived from a BookingDetail on every load and never stored.
type Leg struct {
	BookingDetailID string    `json:"booking_detail_id"`
	BookingID       string    `json:"booking_id"`
	Type            LegType   `json:"type"`
	CustomerName    string    `json:"customer_name"`
	ModelName       string    `json:"model_name"`
	Category        string    `json:"category"`
	Fuel            string    `json:"fuel"`
	Transmission    string    `json:"transmission"`
	Location        string    `json:"location"`
	Time            time.Time `json:"time"`

	// Vehicle shown for the leg. For allocated Drop legs this is the
	// allocation's vehicle, otherwise the one originally booked.
	VehicleID    string `json:"vehicle_id"`
	Registration string `json:"registration"`

	IsAllocated  bool   `json:"is_allocated"`
	AllocationID string `json:"allocation_id,omitempty"`
	DriverID     string `json:"driver_id,omitempty"`
	DriverName   string `json:"driver_name,omitempty"`
	Pending      bool   `json:"pending,omitempty"`
}

func (l Leg) Key() LegKey {
	return LegKey{BookingDetailID: l.BookingDetailID, Type: l.Type}
}

// PendingEdit is a caller-held, unsaved driver/vehicle selection for a leg.
type PendingEdit struct {
	DriverID  string `json:"driver_id"`
	VehicleID string `json:"vehicle_id"`
}
