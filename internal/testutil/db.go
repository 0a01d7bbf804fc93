package testutil

import (
	"testing"

	migration "shopmydish/cmd/database/migrate"
	"shopmydish/entities"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory sqlite database. The pool is
// pinned to one connection because every sqlite connection sees its own
// in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to SQLite test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	u := &entities.User{
		Subject:  "auth0|" + uuid.NewString(),
		Username: username,
		Email:    username + "@example.com",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return u
}
