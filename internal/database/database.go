package database

import (
	"gsefl-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN (Postgres/Supabase pooler URL).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when running behind connection
// poolers (PgBouncer, Supabase, Render).
// TranslateError maps driver unique-violation errors to gorm.ErrDuplicatedKey,
// which the settlement engine relies on for conflict detection.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
}

// AutoMigrate runs migrations for all ledger and market-data models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Account{},
		&domain.Security{},
		&domain.Holding{},
		&domain.Transaction{},
		&domain.SyncRun{},
	)
}
