package postgres

import (
	"errors"

	"comanda/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
)

var (
	ErrVersionConflict = errors.New("stale order version")
	ErrOpenShiftExists = errors.New("an open shift already exists")
	ErrSettleConflict  = errors.New("settle batch conflict")
)

// ConnectDB opens and pings a postgres connection. The DSN comes from
// configs.Config.PgDSN, either DATABASE_URL verbatim or one assembled from
// the POSTGRES_* variables.
func ConnectDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.DB().Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates/updates the schema for every model this service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Order{},
		&models.Item{},
		&models.Reparto{},
		&models.Shift{},
		&models.Courier{},
		&models.Neighborhood{},
		&models.OrderCounter{},
	).Error
}
