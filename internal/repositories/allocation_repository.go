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

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

const (
	mysqlDuplicateEntry = 1062
	mysqlDeadlock       = 1213
)

// AllocationRepository persists driver/vehicle assignments keyed by
// (booking_detail_id, type).
type AllocationRepository struct {
	DB  *sql.DB
	Now func() time.Time
	// NewID generates ids for inserted rows; defaults to uuid v4.
	NewID func() string
}

func (r AllocationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r AllocationRepository) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r AllocationRepository) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.NewString()
}

const allocationSelect = `
	SELECT
		a.id,
		a.owner_id,
		a.booking_detail_id,
		a.type,
		a.driver_id,
		COALESCE(d.name, ''),
		COALESCE(a.vehicle_id, ''),
		COALESCE(v.registration, ''),
		a.confirmed,
		COALESCE(a.location, ''),
		a.scheduled_at,
		a.created_at,
		a.updated_at
	FROM allocations a
	LEFT JOIN drivers d ON d.id = a.driver_id
	LEFT JOIN vehicles v ON v.id = a.vehicle_id`

// ListByOwner returns every allocation of the owner, oldest first, so that a
// later row for the same leg is the most recently created one.
func (r AllocationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Allocation, error) {
	rows, err := r.db().QueryContext(ctx, allocationSelect+`
	WHERE a.owner_id = ?
	ORDER BY a.created_at ASC, a.id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Allocation{}
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return out, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Upsert writes the allocation for a.Key() in a single transaction.
//
// An existing row gets driver_id and confirmed=1; vehicle_id is written only
// when vehicleSupplied. Without a row, a new one is inserted from a. The
// stored row is returned.
func (r AllocationRepository) Upsert(ctx context.Context, a models.Allocation, vehicleSupplied bool) (out models.Allocation, err error) {
	if strings.TrimSpace(a.BookingDetailID) == "" || a.Type == "" {
		return out, domain.ValidationError{Field: "leg", Msg: "identitas leg kosong"}
	}

	out, err = r.upsertOnce(ctx, a, vehicleSupplied)
	if isMySQLError(err, mysqlDeadlock) {
		// concurrent first inserts deadlock on the gap lock; the rolled back
		// writer runs once more and finds the other row
		out, err = r.upsertOnce(ctx, a, vehicleSupplied)
	}
	return out, err
}

func (r AllocationRepository) upsertOnce(ctx context.Context, a models.Allocation, vehicleSupplied bool) (out models.Allocation, err error) {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return out, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := r.now()
	existingID, err := lockLegRow(ctx, tx, a.Key())
	if err != nil {
		return out, err
	}

	if existingID == "" {
		existingID = r.newID()
		err = insertAllocation(ctx, tx, existingID, a, vehicleSupplied, now)
		if isMySQLError(err, mysqlDuplicateEntry) {
			// another writer created the row first; fall through to update it
			if existingID, err = lockLegRow(ctx, tx, a.Key()); err == nil {
				err = updateAllocation(ctx, tx, existingID, a, vehicleSupplied, now)
			}
		}
	} else {
		err = updateAllocation(ctx, tx, existingID, a, vehicleSupplied, now)
	}
	if err != nil {
		return out, err
	}

	out, err = scanAllocation(tx.QueryRowContext(ctx, allocationSelect+`
	WHERE a.id = ?`, existingID))
	if err != nil {
		return out, fmt.Errorf("reload allocation %s: %w", existingID, err)
	}

	if err = tx.Commit(); err != nil {
		return models.Allocation{}, err
	}
	return out, nil
}

func isMySQLError(err error, number uint16) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == number
}

func lockLegRow(ctx context.Context, tx *sql.Tx, key models.LegKey) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM allocations
		WHERE booking_detail_id = ? AND type = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
		FOR UPDATE`, key.BookingDetailID, string(key.Type)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func insertAllocation(ctx context.Context, tx *sql.Tx, id string, a models.Allocation, vehicleSupplied bool, now time.Time) error {
	var vehicle any
	if vehicleSupplied {
		vehicle = intdb.NullIfEmpty(a.VehicleID)
	}
	var scheduled any
	if !a.ScheduledAt.IsZero() {
		scheduled = a.ScheduledAt
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO allocations
			(id, owner_id, booking_detail_id, type, driver_id, vehicle_id, confirmed, location, scheduled_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?)`,
		id, a.OwnerID, a.BookingDetailID, string(a.Type), a.DriverID, vehicle, a.Location, scheduled, now, now)
	return err
}

func updateAllocation(ctx context.Context, tx *sql.Tx, id string, a models.Allocation, vehicleSupplied bool, now time.Time) error {
	sets := []string{"driver_id=?", "confirmed=1"}
	args := []any{a.DriverID}
	if vehicleSupplied {
		sets = append(sets, "vehicle_id=?")
		args = append(args, intdb.NullIfEmpty(a.VehicleID))
	}
	sets = append(sets, "updated_at=?")
	args = append(args, now, id)

	_, err := tx.ExecContext(ctx, `UPDATE allocations SET `+strings.Join(sets, ", ")+` WHERE id=?`, args...)
	return err
}

func scanAllocation(s rowScanner) (models.Allocation, error) {
	var (
		a                           models.Allocation
		legType                     string
		scheduled, created, updated sql.NullTime
	)
	err := s.Scan(
		&a.ID,
		&a.OwnerID,
		&a.BookingDetailID,
		&legType,
		&a.DriverID,
		&a.DriverName,
		&a.VehicleID,
		&a.Registration,
		&a.Confirmed,
		&a.Location,
		&scheduled,
		&created,
		&updated,
	)
	if err != nil {
		return a, err
	}
	if lt, perr := models.ParseLegType(legType); perr == nil {
		a.Type = lt
	} else {
		a.Type = models.LegType(legType)
	}
	a.ScheduledAt = scheduled.Time
	a.CreatedAt = created.Time
	a.UpdatedAt = updated.Time
	return a, nil
}
