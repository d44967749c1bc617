package repositories

import (
	"context"
	"testing"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var detailCols = []string{
	"id", "booking_id", "quantity", "vehicle_id", "model_name", "registration", "category",
	"fuel", "transmission", "customer_name", "pickup_location", "drop_location", "pickup_at", "drop_at",
}

func TestListActiveBookingsFiltersByOwnerStatusAndPickup(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	from := time.Date(2024, 11, 19, 0, 0, 0, 0, time.UTC)
	pickup := time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC)
	drop := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("status IN \\(\\?,\\?\\)").
		WithArgs("owner-1", "BOOKED", "ONGOING", from).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "owner_id", "customer_name", "pickup_location", "drop_location", "pickup_at", "drop_at", "status", "vehicle_count",
		}).AddRow("B1", "owner-1", "Andi", "Airport", "Hotel", pickup, drop, "booked", 1))

	repo := BookingRepository{DB: conn}
	got, err := repo.ListActiveBookings(context.Background(), "owner-1", models.ActiveBookingStatuses, from)
	if err != nil {
		t.Fatalf("ListActiveBookings error: %v", err)
	}
	if len(got) != 1 || got[0].Status != models.BookingBooked || !got[0].PickupAt.Equal(pickup) {
		t.Fatalf("unexpected bookings: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListActiveBookingsRequiresOwner(t *testing.T) {
	_, err := BookingRepository{}.ListActiveBookings(context.Background(), " ", models.ActiveBookingStatuses, time.Now())
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListBookingDetailsJoinsDisplayFields(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	pickup := time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC)
	drop := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("WHERE bd.booking_id IN \\(\\?,\\?\\)").
		WithArgs("B1", "B2").
		WillReturnRows(sqlmock.NewRows(detailCols).
			AddRow("D1", "B1", 1, "V1", "Swift", "B 1234 XY", "Hatchback", "Petrol", "Manual", "Andi", "Airport", "Hotel", pickup, drop))

	got, err := BookingRepository{DB: conn}.ListBookingDetails(context.Background(), []string{"B1", "B2"})
	if err != nil {
		t.Fatalf("ListBookingDetails error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 detail, got %d", len(got))
	}
	d := got[0]
	if d.ModelName != "Swift" || d.Registration != "B 1234 XY" || d.CustomerName != "Andi" || !d.DropAt.Equal(drop) {
		t.Fatalf("unexpected detail: %+v", d)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListBookingDetailsEmptyInputSkipsQuery(t *testing.T) {
	got, err := BookingRepository{}.ListBookingDetails(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v %v", got, err)
	}
}

func TestGetBookingDetailNotFound(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("WHERE bd.id = \\? AND b.owner_id = \\?").
		WithArgs("D404", "owner-1").
		WillReturnRows(sqlmock.NewRows(detailCols))

	_, err = BookingRepository{DB: conn}.GetBookingDetail(context.Background(), "owner-1", "D404")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDriverGetByIDScopedToOwner(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("FROM drivers").WithArgs("driver-42", "owner-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "phone", "status"}))

	_, err = DriverRepository{DB: conn}.GetByID(context.Background(), "owner-2", "driver-42")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found for foreign driver, got %v", err)
	}
}

func TestListAvailableVehicles(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("LOWER\\(v.status\\) = \\?").WithArgs("owner-1", models.VehicleAvailable).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "registration", "model_name", "status"}).
			AddRow("V1", "owner-1", "B 1234 XY", "Swift", "Available"))

	got, err := VehicleRepository{DB: conn}.ListAvailable(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("ListAvailable error: %v", err)
	}
	if len(got) != 1 || got[0].Status != models.VehicleAvailable {
		t.Fatalf("unexpected vehicles: %+v", got)
	}
}
