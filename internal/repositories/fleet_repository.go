package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "fleetdesk/internal/config"
	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
)

type DriverRepository struct {
	DB *sql.DB
}

func (r DriverRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListActive returns the owner's drivers with status active, by name.
func (r DriverRepository) ListActive(ctx context.Context, ownerID string) ([]models.Driver, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, owner_id, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(status, '')
		FROM drivers
		WHERE owner_id = ? AND LOWER(status) = ?
		ORDER BY name ASC, id ASC`, ownerID, models.DriverActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Driver{}
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Phone, &d.Status); err != nil {
			return out, err
		}
		d.Status = strings.ToLower(strings.TrimSpace(d.Status))
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByID returns a driver of the owner regardless of status.
func (r DriverRepository) GetByID(ctx context.Context, ownerID, driverID string) (models.Driver, error) {
	var d models.Driver
	err := r.db().QueryRowContext(ctx, `
		SELECT id, owner_id, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(status, '')
		FROM drivers
		WHERE id = ? AND owner_id = ?
		LIMIT 1`, driverID, ownerID).Scan(&d.ID, &d.OwnerID, &d.Name, &d.Phone, &d.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return d, domain.NotFoundError{Resource: "driver", Err: err}
	}
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))
	return d, err
}

type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const vehicleSelect = `
	SELECT v.id, v.owner_id, COALESCE(v.registration, ''), COALESCE(vm.name, ''), COALESCE(v.status, '')
	FROM vehicles v
	LEFT JOIN vehicle_models vm ON vm.id = v.model_id`

// ListAvailable returns the owner's vehicles with status available.
func (r VehicleRepository) ListAvailable(ctx context.Context, ownerID string) ([]models.Vehicle, error) {
	rows, err := r.db().QueryContext(ctx, vehicleSelect+`
	WHERE v.owner_id = ? AND LOWER(v.status) = ?
	ORDER BY v.registration ASC, v.id ASC`, ownerID, models.VehicleAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Registration, &v.ModelName, &v.Status); err != nil {
			return out, err
		}
		v.Status = strings.ToLower(strings.TrimSpace(v.Status))
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetByID returns a vehicle of the owner in any status.
func (r VehicleRepository) GetByID(ctx context.Context, ownerID, vehicleID string) (models.Vehicle, error) {
	var v models.Vehicle
	err := r.db().QueryRowContext(ctx, vehicleSelect+`
	WHERE v.id = ? AND v.owner_id = ?
	LIMIT 1`, vehicleID, ownerID).Scan(&v.ID, &v.OwnerID, &v.Registration, &v.ModelName, &v.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return v, domain.NotFoundError{Resource: "vehicle", Err: err}
	}
	v.Status = strings.ToLower(strings.TrimSpace(v.Status))
	return v, err
}

type OwnerRepository struct {
	DB *sql.DB
}

func (r OwnerRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByEmail is used by login; email match is case-insensitive.
func (r OwnerRepository) GetByEmail(ctx context.Context, email string) (models.Owner, error) {
	var o models.Owner
	err := r.db().QueryRowContext(ctx, `
		SELECT id, COALESCE(name, ''), email, password_hash
		FROM owners
		WHERE LOWER(email) = ?
		LIMIT 1`, strings.ToLower(strings.TrimSpace(email))).Scan(&o.ID, &o.Name, &o.Email, &o.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return o, domain.NotFoundError{Resource: "owner", Err: err}
	}
	return o, err
}
