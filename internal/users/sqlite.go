package users

import (
	"errors"
	"fmt"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// userRecord is the persisted shape of a profile.
type userRecord struct {
	ID           int64 `gorm:"primaryKey"` // Telegram user ID
	FullName     string
	Phone        string
	VIN          string `gorm:"column:vin"`
	Plate        string
	VehicleMake  string
	VehicleModel string
	VehicleYear  string
}

func (userRecord) TableName() string { return "users" }

// SQLiteRegistry persists profiles to a local sqlite database so that
// registered customers survive a restart. Booking state intentionally
// does not.
type SQLiteRegistry struct {
	db *gorm.DB
}

// NewSQLiteRegistry opens (or creates) the database and runs migrations.
func NewSQLiteRegistry(dbPath string, debug bool) (*SQLiteRegistry, error) {
	gormLogger := logger.Default.LogMode(logger.Silent)
	if debug {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open users db: %w", err)
	}
	if err := db.AutoMigrate(&userRecord{}); err != nil {
		return nil, fmt.Errorf("migrate users db: %w", err)
	}
	return &SQLiteRegistry{db: db}, nil
}

// Get returns the profile for the user ID.
func (r *SQLiteRegistry) Get(userID int64) (*User, bool) {
	var rec userRecord
	if err := r.db.First(&rec, "id = ?", userID).Error; err != nil {
		return nil, false
	}
	return &User{
		ID:       rec.ID,
		FullName: rec.FullName,
		Phone:    rec.Phone,
		VIN:      rec.VIN,
		Plate:    rec.Plate,
		Vehicle: Vehicle{
			Make:  rec.VehicleMake,
			Model: rec.VehicleModel,
			Year:  rec.VehicleYear,
		},
	}, true
}

// Put stores the profile, replacing any previous registration.
func (r *SQLiteRegistry) Put(user *User) error {
	if user == nil || user.ID == 0 {
		return fmt.Errorf("users: invalid user")
	}
	rec := userRecord{
		ID:           user.ID,
		FullName:     user.FullName,
		Phone:        user.Phone,
		VIN:          user.VIN,
		Plate:        user.Plate,
		VehicleMake:  user.Vehicle.Make,
		VehicleModel: user.Vehicle.Model,
		VehicleYear:  user.Vehicle.Year,
	}
	if err := r.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Exists reports whether the user has completed registration.
func (r *SQLiteRegistry) Exists(userID int64) bool {
	var rec userRecord
	err := r.db.Select("id").First(&rec, "id = ?", userID).Error
	return !errors.Is(err, gorm.ErrRecordNotFound) && err == nil
}

// Close closes the underlying database connection.
func (r *SQLiteRegistry) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("users db instance: %w", err)
	}
	return sqlDB.Close()
}

var _ Registry = (*SQLiteRegistry)(nil)
