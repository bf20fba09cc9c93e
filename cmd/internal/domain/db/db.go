package db

import (
	"carebook/cmd/internal/config"
	"carebook/cmd/internal/domain/entity"
	"carebook/cmd/internal/domain/scheduling"
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Init opens the store and brings the schema up to date.
func Init(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.DB.DSN))
	case DriverPostgres:
		dialector = postgres.Open(cfg.DB.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DB.Driver)
	}

	gormCfg := &gorm.Config{
		// Unique violations surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
	if cfg.DB.Debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.Doctor{},
		&entity.Patient{},
		&entity.WeeklyTemplate{},
		&entity.TemplateBreak{},
		&entity.Appointment{},
	)
	if err != nil {
		return err
	}
	return db.Exec(liveSlotIndex()).Error
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// liveSlotIndex is a partial unique index: only occupying appointments
// compete for a (doctor, date, slot), so cancelled rows never block a
// new booking. gorm index tags cannot express an IN list, hence raw SQL.
func liveSlotIndex() string {
	quoted := make([]string, len(scheduling.OccupyingStatuses))
	for i, s := range scheduling.OccupyingStatuses {
		quoted[i] = "'" + string(s) + "'"
	}
	return "CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_live_slot " +
		"ON appointments (doctor_id, appointment_date, slot) " +
		"WHERE status IN (" + strings.Join(quoted, ", ") + ")"
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_busy_timeout=5000"
}
