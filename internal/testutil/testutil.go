// Package testutil provides an in-memory database and seed helpers shared by
// the service and repository tests.
package testutil

import (
	"strings"
	"testing"
	"time"

	"agrofrete/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens a private in-memory sqlite database migrated with the full
// schema. Each test gets its own database keyed by the test name.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := "file:" + name + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{},
		&model.TransportRequest{},
		&model.Proposal{},
		&model.DigitalContract{},
		&model.LocationSample{},
		&model.ChatMessage{},
		&model.Rating{},
		&model.Notification{},
		&model.AuditLog{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// CreateUser seeds an account with the given role. Email is derived from the
// name so repeated calls with distinct names never collide.
func CreateUser(t *testing.T, db *gorm.DB, name, role string) *model.User {
	t.Helper()

	user := &model.User{
		Name:     name,
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.test",
		Phone:    "+258840000000",
		Password: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:     role,
		District: "Chimoio",
	}
	if role == model.RoleTransporter {
		user.MovaAccount = "842111222"
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateRequest seeds a pending transport request owned by the cooperative.
func CreateRequest(t *testing.T, db *gorm.DB, cooperativeID uuid.UUID) *model.TransportRequest {
	t.Helper()

	weight := 1500.0
	req := &model.TransportRequest{
		CooperativeID: cooperativeID,
		Title:         "Maize to Beira",
		Origin:        "Chimoio",
		Destination:   "Beira",
		CargoType:     "maize",
		WeightKg:      &weight,
		PickupDate:    time.Now().Add(72 * time.Hour),
		Status:        model.RequestStatusPending,
	}
	require.NoError(t, db.Create(req).Error)
	return req
}

// AcceptRequest moves a seeded request into the accepted state with the given
// transporter assigned, bypassing the service layer.
func AcceptRequest(t *testing.T, db *gorm.DB, req *model.TransportRequest, transporterID uuid.UUID) {
	t.Helper()

	err := db.Model(&model.TransportRequest{}).
		Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"status":         model.RequestStatusAccepted,
			"transporter_id": transporterID,
		}).Error
	require.NoError(t, err)
	req.Status = model.RequestStatusAccepted
	req.TransporterID = &transporterID
}
