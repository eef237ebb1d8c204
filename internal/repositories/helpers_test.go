package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"storerating/internal/config"
	"storerating/internal/database"
	"storerating/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DriverSQLite, database.MemoryDSN(), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.InitializeSchema(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// personName pads base to the 20 character minimum the schema enforces.
func personName(base string) string {
	if len(base) >= 20 {
		return base
	}
	return base + strings.Repeat("x", 20-len(base))
}

func createUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: personName(name), Email: email, Password: "hash", Address: "Somewhere", Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createStore(t *testing.T, db *gorm.DB, name string, ownerID *uint) *models.Store {
	t.Helper()
	s := &models.Store{
		Name:    name,
		Email:   strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@example.com",
		Address: fmt.Sprintf("%s Road", name),
		OwnerID: ownerID,
	}
	require.NoError(t, db.Omit("Owner").Create(s).Error)
	return s
}

func rate(t *testing.T, db *gorm.DB, userID, storeID uint, value int) {
	t.Helper()
	require.NoError(t, db.Omit("User", "Store").Create(&models.Rating{UserID: userID, StoreID: storeID, Rating: value}).Error)
}

var ctx = context.Background()
