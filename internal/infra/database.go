package infra

import (
	"fmt"

	"github.com/sime65123/gym-project/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches that GORM
// cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus schema patches. Also used by
// integration tests against throwaway containers.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() needs pgcrypto on PostgreSQL < 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Plan{},
		&model.StaffMember{},
		&model.Attendance{},
		&model.Session{},
		&model.Reservation{},
		&model.Payment{},
		&model.Invoice{},
		&model.Membership{},
		&model.Charge{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on a patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial index backing the invoice retry sweep query.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_invoices_pending_retry') THEN
		    CREATE INDEX idx_invoices_pending_retry
		        ON invoices (next_retry_at)
		        WHERE pdf_path IS NULL AND next_retry_at IS NOT NULL;
		  END IF;
		END $$`,
		// Partial index backing the membership expiry sweep.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_memberships_active_end') THEN
		    CREATE INDEX idx_memberships_active_end
		        ON memberships (end_date)
		        WHERE active = true;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
