package db

import (
	"context"
	"database/sql"
	"fmt"

	"fleetdesk/internal/utils"
)

const allocationsDDL = `
CREATE TABLE IF NOT EXISTS allocations (
	id                VARCHAR(36)  NOT NULL PRIMARY KEY,
	owner_id          VARCHAR(64)  NOT NULL,
	booking_detail_id VARCHAR(64)  NOT NULL,
	type              VARCHAR(8)   NOT NULL,
	driver_id         VARCHAR(64)  NOT NULL,
	vehicle_id        VARCHAR(64)  NULL,
	confirmed         TINYINT(1)   NOT NULL DEFAULT 0,
	location          VARCHAR(255) NOT NULL DEFAULT '',
	scheduled_at      DATETIME     NULL,
	created_at        DATETIME     NOT NULL,
	updated_at        DATETIME     NOT NULL,
	KEY idx_allocations_owner (owner_id),
	KEY idx_allocations_leg (booking_detail_id, type)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const (
	legUniqueIndex = "uq_allocations_leg"
	legIndex       = "idx_allocations_leg"
)

// EnsureSchema creates the allocations table and, when the existing rows allow
// it, the unique key on (booking_detail_id, type).
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, allocationsDDL); err != nil {
		return fmt.Errorf("create allocations: %w", err)
	}

	if HasIndex(ctx, conn, "allocations", legUniqueIndex) {
		return nil
	}

	var dupes int
	err := conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT booking_detail_id, type
			FROM allocations
			GROUP BY booking_detail_id, type
			HAVING COUNT(*) > 1
		) d`).Scan(&dupes)
	if err != nil {
		return fmt.Errorf("count duplicate legs: %w", err)
	}
	if dupes > 0 {
		utils.LogEventf("", "schema", "unique_leg_skipped", "duplicate_legs=%d", dupes)
		// tables created before idx_allocations_leg existed still need it for the leg lock
		if !HasIndex(ctx, conn, "allocations", legIndex) {
			if _, err := conn.ExecContext(ctx, `ALTER TABLE allocations ADD KEY `+legIndex+` (booking_detail_id, type)`); err != nil {
				return fmt.Errorf("add %s: %w", legIndex, err)
			}
		}
		return nil
	}

	if _, err := conn.ExecContext(ctx, `ALTER TABLE allocations ADD UNIQUE KEY `+legUniqueIndex+` (booking_detail_id, type)`); err != nil {
		return fmt.Errorf("add %s: %w", legUniqueIndex, err)
	}
	utils.LogEvent("", "schema", "unique_leg_added", legUniqueIndex)
	return nil
}
