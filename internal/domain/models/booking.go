package models

import "time"

// BookingStatus mirrors bookings.status.
type BookingStatus string

const (
	BookingBooked    BookingStatus = "BOOKED"
	BookingOngoing   BookingStatus = "ONGOING"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// ActiveBookingStatuses are the statuses whose legs still need a driver.
var ActiveBookingStatuses = []BookingStatus{BookingBooked, BookingOngoing}

// Booking is a customer reservation owned by one fleet owner.
type Booking struct {
	ID             string        `json:"id"`
	OwnerID        string        `json:"owner_id"`
	CustomerName   string        `json:"customer_name"`
	PickupLocation string        `json:"pickup_location"`
	DropLocation   string        `json:"drop_location"`
	PickupAt       time.Time     `json:"pickup_at"`
	DropAt         time.Time     `json:"drop_at"`
	Status         BookingStatus `json:"status"`
	VehicleCount   int           `json:"vehicle_count"`
}

// BookingDetail is one reserved vehicle line of a booking, already joined with
// its booking and the vehicle/model/category display fields.
type BookingDetail struct {
	ID           string `json:"id"`
	BookingID    string `json:"booking_id"`
	Quantity     int    `json:"quantity"`
	VehicleID    string `json:"vehicle_id"`
	ModelName    string `json:"model_name"`
	Registration string `json:"registration"`
	Category     string `json:"category"`
	Fuel         string `json:"fuel"`
	Transmission string `json:"transmission"`

	CustomerName   string    `json:"customer_name"`
	PickupLocation string    `json:"pickup_location"`
	DropLocation   string    `json:"drop_location"`
	PickupAt       time.Time `json:"pickup_at"`
	DropAt         time.Time `json:"drop_at"`
}
