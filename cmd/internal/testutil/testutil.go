// Package testutil opens throwaway stores for package tests.
package testutil

import (
	"carebook/cmd/internal/config"
	"carebook/cmd/internal/domain/db"
	"carebook/cmd/internal/domain/entity"
	"carebook/cmd/internal/utils"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// OpenDB returns a migrated SQLite store in a temporary directory.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{}
	cfg.DB.Driver = db.DriverSQLite
	cfg.DB.DSN = filepath.Join(t.TempDir(), "carebook.db")
	cfg.DB.MaxOpenConns = 1

	gdb, err := db.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func CreateDoctor(t *testing.T, gdb *gorm.DB, name string) *entity.Doctor {
	t.Helper()
	now := utils.NowUTC()
	d := &entity.Doctor{ID: uuid.NewString(), Name: name, Email: uuid.NewString() + "@carebook.test", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, gdb.Omit("WeeklyTemplates").Create(d).Error)
	return d
}

func CreatePatient(t *testing.T, gdb *gorm.DB, name string) *entity.Patient {
	t.Helper()
	now := utils.NowUTC()
	p := &entity.Patient{ID: uuid.NewString(), Name: name, Email: uuid.NewString() + "@carebook.test", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

// MondayMorning is 09:00-11:00 in 30 minute slots with a 10:00-10:30 break.
func MondayMorning(doctorID string) *entity.WeeklyTemplate {
	now := utils.NowUTC()
	return &entity.WeeklyTemplate{
		ID:           uuid.NewString(),
		DoctorID:     doctorID,
		DayOfWeek:    "Monday",
		IsEnabled:    true,
		StartTime:    "09:00",
		EndTime:      "11:00",
		SlotDuration: 30,
		CreatedAt:    now,
		UpdatedAt:    now,
		Breaks:       []entity.TemplateBreak{{BreakStart: "10:00", BreakEnd: "10:30"}},
	}
}

func CreateTemplate(t *testing.T, gdb *gorm.DB, tpl *entity.WeeklyTemplate) {
	t.Helper()
	require.NoError(t, gdb.Create(tpl).Error)
}
