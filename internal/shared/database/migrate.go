package database

import (
	"seatwise/internal/bookings"
	"seatwise/internal/events"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults on the models need the extension
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&events.Event{},
		&events.Section{},
		&bookings.Booking{},
	)
}
