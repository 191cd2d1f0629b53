package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the schema when it does not exist yet. Statements
// are idempotent so the function is safe to run on every startup.
// Foreign keys are the only backstop for referential integrity of
// booking references; existence of the referenced rows is not
// re-checked by the application before insert.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            VARCHAR(64) PRIMARY KEY,
			email         VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			full_name     VARCHAR(255) NOT NULL DEFAULT '',
			role          VARCHAR(16)  NOT NULL DEFAULT 'MEMBER',
			is_active     TINYINT(1)   NOT NULL DEFAULT 1,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			user_id    VARCHAR(64) NOT NULL,
			token_hash CHAR(64) NOT NULL,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_refresh_tokens_hash (token_hash),
			CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS trainers (
			id         VARCHAR(64) PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			bio        TEXT NOT NULL,
			specialty  VARCHAR(255) NOT NULL DEFAULT '',
			is_active  TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS classes (
			id           VARCHAR(64) PRIMARY KEY,
			name         VARCHAR(255) NOT NULL,
			description  TEXT NOT NULL,
			trainer_id   VARCHAR(64) NULL,
			price_cents  INT UNSIGNED NOT NULL DEFAULT 0,
			max_spots    INT UNSIGNED NOT NULL DEFAULT 0,
			booked_spots INT UNSIGNED NOT NULL DEFAULT 0,
			is_active    TINYINT(1) NOT NULL DEFAULT 1,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			CONSTRAINT fk_classes_trainer FOREIGN KEY (trainer_id) REFERENCES trainers(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id           VARCHAR(64) PRIMARY KEY,
			name         VARCHAR(255) NOT NULL,
			description  TEXT NOT NULL,
			starts_at    DATETIME NOT NULL,
			ends_at      DATETIME NOT NULL,
			price_cents  INT UNSIGNED NOT NULL DEFAULT 0,
			max_spots    INT UNSIGNED NOT NULL DEFAULT 0,
			booked_spots INT UNSIGNED NOT NULL DEFAULT 0,
			is_active    TINYINT(1) NOT NULL DEFAULT 1,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS schedules (
			id           VARCHAR(64) PRIMARY KEY,
			class_id     VARCHAR(64) NOT NULL,
			weekday      TINYINT UNSIGNED NOT NULL,
			start_time   CHAR(5) NOT NULL,
			duration_min INT UNSIGNED NOT NULL,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_schedules_class FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS packs (
			id          VARCHAR(64) PRIMARY KEY,
			name        VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			sessions    INT UNSIGNED NOT NULL,
			price_cents INT UNSIGNED NOT NULL,
			kind        VARCHAR(8) NOT NULL DEFAULT 'group',
			is_active   TINYINT(1) NOT NULL DEFAULT 1,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS addons (
			id          VARCHAR(64) PRIMARY KEY,
			name        VARCHAR(255) NOT NULL,
			price_cents INT UNSIGNED NOT NULL,
			is_active   TINYINT(1) NOT NULL DEFAULT 1,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id          VARCHAR(64) PRIMARY KEY,
			user_id     VARCHAR(64) NOT NULL,
			class_id    VARCHAR(64) NULL,
			event_id    VARCHAR(64) NULL,
			pack_id     VARCHAR(64) NULL,
			schedule_id VARCHAR(64) NULL,
			payment_id  VARCHAR(255) NOT NULL,
			status      VARCHAR(16) NOT NULL DEFAULT 'pending',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_bookings_user (user_id),
			KEY idx_bookings_status (status),
			CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
			CONSTRAINT fk_bookings_class FOREIGN KEY (class_id) REFERENCES classes(id),
			CONSTRAINT fk_bookings_event FOREIGN KEY (event_id) REFERENCES events(id),
			CONSTRAINT fk_bookings_pack FOREIGN KEY (pack_id) REFERENCES packs(id),
			CONSTRAINT fk_bookings_schedule FOREIGN KEY (schedule_id) REFERENCES schedules(id)
		)`,
		`CREATE TABLE IF NOT EXISTS booking_addons (
			booking_id VARCHAR(64) NOT NULL,
			addon_id   VARCHAR(64) NOT NULL,
			PRIMARY KEY (booking_id, addon_id),
			CONSTRAINT fk_booking_addons_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE,
			CONSTRAINT fk_booking_addons_addon FOREIGN KEY (addon_id) REFERENCES addons(id)
		)`,
		`CREATE TABLE IF NOT EXISTS enquiries (
			id         VARCHAR(64) PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			email      VARCHAR(255) NOT NULL,
			phone      VARCHAR(64) NOT NULL DEFAULT '',
			message    TEXT NOT NULL,
			resolved   TINYINT(1) NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS attendance (
			id            VARCHAR(64) PRIMARY KEY,
			booking_id    VARCHAR(64) NOT NULL,
			activity_id   VARCHAR(64) NOT NULL,
			activity_kind VARCHAR(8) NOT NULL,
			attended      TINYINT(1) NOT NULL DEFAULT 0,
			marked_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_attendance_activity (activity_id),
			CONSTRAINT fk_attendance_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE
		)`,
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
