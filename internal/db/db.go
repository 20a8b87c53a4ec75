package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"autobid/internal/logger"
	"autobid/internal/model"
)

// Supported drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Open returns a connected GORM DB for the given driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.GORM(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		// SQLite allows one writer; a single connection also keeps :memory: databases shared.
		sqlDB.SetMaxOpenConns(1)
		for _, p := range []string{"PRAGMA busy_timeout=5000"} {
			if err := db.Exec(p).Error; err != nil {
				return nil, fmt.Errorf("setting pragma %q: %w", p, err)
			}
		}
	}

	return db, nil
}

// models lists every table in dependency order.
func models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Profile{},
		&model.Vehicle{},
		&model.VehicleImage{},
		&model.Auction{},
		&model.Bid{},
		&model.Transaction{},
		&model.Favorite{},
		&model.WorldIDVerification{},
		&model.Car{},
	}
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops all tables, children first.
func Reset(db *gorm.DB) error {
	all := models()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

// SupportsRowLocks reports whether SELECT ... FOR UPDATE is available.
// SQLite serializes writers at the database level instead.
func SupportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() != DriverSQLite
}
