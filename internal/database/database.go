// Package database opens the relational store and prepares its schema.
// Nothing here runs on import; main calls Open, InitializeSchema and Seed
// explicitly before the server starts accepting requests.
package database

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"storerating/internal/config"
	"storerating/internal/models"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Open connects to the configured driver. Driver errors are translated into
// gorm sentinel errors (ErrDuplicatedKey, ErrForeignKeyViolated) so the
// repositories can classify them without driver-specific code.
func Open(driver, dsn string, level logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverSQLite:
		dialector = sqlite.New(sqlite.Config{DriverName: sqliteDriverName(), DSN: SQLiteDSN(dsn)})
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if driver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		// sqlite serializes writers anyway; a single connection also keeps
		// shared in-memory databases alive and foreign keys on.
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

const sqliteDriver = "sqlite3_storerating"

var registerSQLite sync.Once

// sqliteDriverName registers, once, a sqlite3 driver whose connections
// replace the built-in ASCII-only lower() with Unicode case folding.
func sqliteDriverName() string {
	registerSQLite.Do(func() {
		sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", unicodeLower, true)
			},
		})
	})
	return sqliteDriver
}

// unicodeLower mirrors lower(): text is folded, NULL and numbers pass through.
func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return bytes.ToLower(s)
	default:
		return v
	}
}

// SQLiteDSN makes sure foreign key enforcement is switched on for the
// connection, which sqlite leaves off by default.
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=1&_busy_timeout=5000"
}

// MemoryDSN returns a DSN for a private, shared-cache in-memory sqlite database.
func MemoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
}

// InitializeSchema creates or updates the users, stores and ratings tables
// with their constraints. It is idempotent.
func InitializeSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Store{}, &models.Rating{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// SeedOptions controls the bootstrap data written by Seed.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	SampleStores  bool
}

// PasswordHasher produces the stored form of a password.
type PasswordHasher func(plaintext string) (string, error)

const defaultAdminName = "Default System Administrator"

var sampleStores = []models.Store{
	{Name: "Paradise Biryani", Email: "contact@paradise.com", Address: "Paradise Circle, Secunderabad"},
	{Name: "Karachi Bakery", Email: "orders@karachibakery.com", Address: "Mozamjahi Market, Hyderabad"},
	{Name: "Pista House", Email: "info@pistahouse.com", Address: "Charminar, Hyderabad"},
	{Name: "Gokul Chat", Email: "help@gokulchat.com", Address: "Koti, Hyderabad"},
}

// Seed inserts the default admin if its email is free and, when asked, a set
// of sample stores if the stores table is empty. Running it twice is a no-op.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions, hash PasswordHasher) error {
	db = db.WithContext(ctx)

	adminEmail := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if adminEmail != "" {
		hashed, err := hash(opts.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := models.User{
			Name:     defaultAdminName,
			Email:    adminEmail,
			Password: hashed,
			Address:  "123 Admin Street, Hyderabad",
			Role:     models.RoleAdmin,
		}
		res := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).Create(&admin)
		if res.Error != nil {
			return fmt.Errorf("failed to seed admin user: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			log.WithField("email", adminEmail).Info("default admin created")
		}
	}

	if !opts.SampleStores {
		return nil
	}
	var count int64
	if err := db.Model(&models.Store{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count stores: %w", err)
	}
	if count > 0 {
		return nil
	}
	stores := make([]models.Store, len(sampleStores))
	copy(stores, sampleStores)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&stores).Error; err != nil {
		return fmt.Errorf("failed to seed sample stores: %w", err)
	}
	log.WithField("count", len(stores)).Info("sample stores added")
	return nil
}
