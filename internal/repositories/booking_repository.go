package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "fleetdesk/internal/config"
	intdb "fleetdesk/internal/db"
	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
)

// BookingRepository reads bookings and their vehicle lines. The tables are
// owned by the hosted store; nothing here writes to them.
type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListActiveBookings returns the owner's bookings in one of statuses with
// pickup_at >= pickupFrom, earliest pickup first.
func (r BookingRepository) ListActiveBookings(ctx context.Context, ownerID string, statuses []models.BookingStatus, pickupFrom time.Time) ([]models.Booking, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domain.ValidationError{Field: "owner_id", Msg: "owner kosong"}
	}
	if len(statuses) == 0 {
		return []models.Booking{}, nil
	}

	args := []any{ownerID}
	for _, st := range statuses {
		args = append(args, string(st))
	}
	args = append(args, pickupFrom)

	query := `
		SELECT
			id,
			owner_id,
			COALESCE(customer_name, ''),
			COALESCE(pickup_location, ''),
			COALESCE(drop_location, ''),
			pickup_at,
			drop_at,
			status,
			COALESCE(vehicle_count, 0)
		FROM bookings
		WHERE owner_id = ?
		  AND status IN (` + intdb.Placeholders(len(statuses)) + `)
		  AND pickup_at >= ?
		ORDER BY pickup_at ASC, id ASC`

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var (
			b              models.Booking
			status         string
			pickup, dropAt sql.NullTime
		)
		if err := rows.Scan(
			&b.ID,
			&b.OwnerID,
			&b.CustomerName,
			&b.PickupLocation,
			&b.DropLocation,
			&pickup,
			&dropAt,
			&status,
			&b.VehicleCount,
		); err != nil {
			return out, err
		}
		b.Status = models.BookingStatus(strings.ToUpper(strings.TrimSpace(status)))
		b.PickupAt = pickup.Time
		b.DropAt = dropAt.Time
		out = append(out, b)
	}
	return out, rows.Err()
}

const bookingDetailSelect = `
	SELECT
		bd.id,
		bd.booking_id,
		COALESCE(bd.quantity, 1),
		COALESCE(bd.vehicle_id, ''),
		COALESCE(vm.name, ''),
		COALESCE(v.registration, ''),
		COALESCE(vc.name, ''),
		COALESCE(vm.fuel, ''),
		COALESCE(vm.transmission, ''),
		COALESCE(b.customer_name, ''),
		COALESCE(b.pickup_location, ''),
		COALESCE(b.drop_location, ''),
		b.pickup_at,
		b.drop_at
	FROM booking_details bd
	JOIN bookings b ON b.id = bd.booking_id
	LEFT JOIN vehicles v ON v.id = bd.vehicle_id
	LEFT JOIN vehicle_models vm ON vm.id = COALESCE(v.model_id, bd.model_id)
	LEFT JOIN vehicle_categories vc ON vc.id = vm.category_id`

// ListBookingDetails loads the lines of the given bookings joined with their
// booking and vehicle display fields.
func (r BookingRepository) ListBookingDetails(ctx context.Context, bookingIDs []string) ([]models.BookingDetail, error) {
	if len(bookingIDs) == 0 {
		return []models.BookingDetail{}, nil
	}
	args := make([]any, 0, len(bookingIDs))
	for _, id := range bookingIDs {
		args = append(args, id)
	}

	query := bookingDetailSelect + `
	WHERE bd.booking_id IN (` + intdb.Placeholders(len(bookingIDs)) + `)
	ORDER BY b.pickup_at ASC, bd.id ASC`

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BookingDetail{}
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetBookingDetail loads one line, scoped to the owner of its booking.
func (r BookingRepository) GetBookingDetail(ctx context.Context, ownerID, detailID string) (models.BookingDetail, error) {
	if strings.TrimSpace(detailID) == "" {
		return models.BookingDetail{}, domain.ValidationError{Field: "booking_detail_id", Msg: "id tidak valid"}
	}
	row := r.db().QueryRowContext(ctx, bookingDetailSelect+`
	WHERE bd.id = ? AND b.owner_id = ?
	LIMIT 1`, detailID, ownerID)

	d, err := scanBookingDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return d, domain.NotFoundError{Resource: "booking detail", Err: err}
	}
	if err != nil {
		return d, fmt.Errorf("scan booking detail %s: %w", detailID, err)
	}
	return d, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingDetail(s rowScanner) (models.BookingDetail, error) {
	var (
		d              models.BookingDetail
		pickup, dropAt sql.NullTime
	)
	err := s.Scan(
		&d.ID,
		&d.BookingID,
		&d.Quantity,
		&d.VehicleID,
		&d.ModelName,
		&d.Registration,
		&d.Category,
		&d.Fuel,
		&d.Transmission,
		&d.CustomerName,
		&d.PickupLocation,
		&d.DropLocation,
		&pickup,
		&dropAt,
	)
	d.PickupAt = pickup.Time
	d.DropAt = dropAt.Time
	return d, err
}
