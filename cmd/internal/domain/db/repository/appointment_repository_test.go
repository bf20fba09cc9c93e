package repository_test

import (
	"carebook/cmd/internal/domain/db/repository"
	"carebook/cmd/internal/domain/entity"
	"carebook/cmd/internal/domain/scheduling"
	"carebook/cmd/internal/testutil"
	"carebook/cmd/internal/utils"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppointment(doctorID, patientID, date, slot string, status scheduling.Status) *entity.Appointment {
	now := utils.NowUTC()
	return &entity.Appointment{
		ID:              uuid.NewString(),
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentDate: date,
		Slot:            slot,
		SlotEnd:         "10:00",
		Status:          status,
		AppointmentType: "Consultation",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestAppointmentRepository_UniqueAmongOccupying(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	repo := repository.NewAppointmentRepository(gdb)
	doc := testutil.CreateDoctor(t, gdb, "Dr. Grey")
	pat := testutil.CreatePatient(t, gdb, "Ann")
	other := testutil.CreatePatient(t, gdb, "Bob")

	require.NoError(t, repo.Create(ctx, newAppointment(doc.ID, pat.ID, "2030-01-07", "09:30", scheduling.StatusScheduled)))

	err := repo.Create(ctx, newAppointment(doc.ID, other.ID, "2030-01-07", "09:30", scheduling.StatusScheduled))
	assert.ErrorIs(t, err, repository.ErrSlotTaken)

	// Same slot on another date, or another slot on the same date, is fine.
	require.NoError(t, repo.Create(ctx, newAppointment(doc.ID, other.ID, "2030-01-14", "09:30", scheduling.StatusScheduled)))
	require.NoError(t, repo.Create(ctx, newAppointment(doc.ID, other.ID, "2030-01-07", "09:00", scheduling.StatusScheduled)))
}

func TestAppointmentRepository_CancelledRowsDoNotBlock(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	repo := repository.NewAppointmentRepository(gdb)
	doc := testutil.CreateDoctor(t, gdb, "Dr. Grey")
	pat := testutil.CreatePatient(t, gdb, "Ann")

	first := newAppointment(doc.ID, pat.ID, "2030-01-07", "09:30", scheduling.StatusScheduled)
	require.NoError(t, repo.Create(ctx, first))

	ok, err := repo.UpdateStatus(ctx, first.ID, scheduling.StatusScheduled, scheduling.StatusCancelled, utils.NowUTC())
	require.NoError(t, err)
	require.True(t, ok)

	second := newAppointment(doc.ID, pat.ID, "2030-01-07", "09:30", scheduling.StatusScheduled)
	require.NoError(t, repo.Create(ctx, second))

	noShow := newAppointment(doc.ID, pat.ID, "2030-01-07", "10:30", scheduling.StatusNoShow)
	require.NoError(t, repo.Create(ctx, noShow))

	slots, err := repo.FindOccupiedSlots(ctx, doc.ID, "2030-01-07")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:30"}, slots)
}

func TestAppointmentRepository_UpdateStatusIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	repo := repository.NewAppointmentRepository(gdb)
	doc := testutil.CreateDoctor(t, gdb, "Dr. Grey")
	pat := testutil.CreatePatient(t, gdb, "Ann")

	appt := newAppointment(doc.ID, pat.ID, "2030-01-07", "09:00", scheduling.StatusScheduled)
	require.NoError(t, repo.Create(ctx, appt))

	ok, err := repo.UpdateStatus(ctx, appt.ID, scheduling.StatusScheduled, scheduling.StatusConfirmed, utils.NowUTC())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateStatus(ctx, appt.ID, scheduling.StatusScheduled, scheduling.StatusCancelled, utils.NowUTC())
	require.NoError(t, err)
	assert.False(t, ok, "stale from-status must not apply")

	got, err := repo.FindByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduling.StatusConfirmed, got.Status)
}

func TestAppointmentRepository_FindAndRange(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	repo := repository.NewAppointmentRepository(gdb)
	doc := testutil.CreateDoctor(t, gdb, "Dr. Grey")
	ann := testutil.CreatePatient(t, gdb, "Ann")
	bob := testutil.CreatePatient(t, gdb, "Bob")

	require.NoError(t, repo.Create(ctx, newAppointment(doc.ID, ann.ID, "2030-01-07", "09:30", scheduling.StatusScheduled)))
	require.NoError(t, repo.Create(ctx, newAppointment(doc.ID, bob.ID, "2030-01-07", "09:00", scheduling.StatusConfirmed)))
	require.NoError(t, repo.Create(ctx, newAppointment(doc.ID, bob.ID, "2030-01-14", "09:00", scheduling.StatusCancelled)))
	require.NoError(t, repo.Create(ctx, newAppointment(doc.ID, ann.ID, "2030-02-04", "09:00", scheduling.StatusScheduled)))

	byBob, err := repo.Find(ctx, repository.AppointmentFilter{PatientID: bob.ID})
	require.NoError(t, err)
	assert.Len(t, byBob, 2)

	onDay, err := repo.Find(ctx, repository.AppointmentFilter{DoctorID: doc.ID, Date: "2030-01-07"})
	require.NoError(t, err)
	require.Len(t, onDay, 2)
	assert.Equal(t, "09:00", onDay[0].Slot)

	cancelled, err := repo.Find(ctx, repository.AppointmentFilter{Status: scheduling.StatusCancelled})
	require.NoError(t, err)
	assert.Len(t, cancelled, 1)

	jan, err := repo.FindOccupiedInRange(ctx, doc.ID, "2030-01-01", "2030-02-01")
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"2030-01-07": {"09:00", "09:30"}}, jan)

	missing, err := repo.FindByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
