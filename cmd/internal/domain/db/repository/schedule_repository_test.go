package repository_test

import (
	"carebook/cmd/internal/domain/db/repository"
	"carebook/cmd/internal/domain/entity"
	"carebook/cmd/internal/domain/scheduling"
	"carebook/cmd/internal/testutil"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepository_ReplaceForDoctor(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.OpenDB(t)
	repo := repository.NewScheduleRepository(gdb)
	doc := testutil.CreateDoctor(t, gdb, "Dr. Grey")
	other := testutil.CreateDoctor(t, gdb, "Dr. Yang")

	testutil.CreateTemplate(t, gdb, testutil.MondayMorning(other.ID))
	require.NoError(t, repo.ReplaceForDoctor(ctx, doc.ID, []*entity.WeeklyTemplate{testutil.MondayMorning(doc.ID)}))

	got, err := repo.FindByDoctorAndDay(ctx, doc.ID, scheduling.Monday)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Breaks, 1)
	assert.Equal(t, "10:00", got.Breaks[0].BreakStart)

	tuesday := testutil.MondayMorning(doc.ID)
	tuesday.DayOfWeek = scheduling.Tuesday
	tuesday.Breaks = []entity.TemplateBreak{{BreakStart: "10:30", BreakEnd: "11:00"}, {BreakStart: "09:00", BreakEnd: "09:15"}}
	require.NoError(t, repo.ReplaceForDoctor(ctx, doc.ID, []*entity.WeeklyTemplate{tuesday}))

	monday, err := repo.FindByDoctorAndDay(ctx, doc.ID, scheduling.Monday)
	require.NoError(t, err)
	assert.Nil(t, monday, "previous week is replaced, not merged")

	week, err := repo.FindByDoctor(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, week, 1)
	require.Len(t, week[0].Breaks, 2)
	assert.Equal(t, "09:00", week[0].Breaks[0].BreakStart)

	var breaks int64
	require.NoError(t, gdb.Model(&entity.TemplateBreak{}).Count(&breaks).Error)
	assert.Equal(t, int64(3), breaks, "old breaks removed, other doctor's kept")

	untouched, err := repo.FindByDoctorAndDay(ctx, other.ID, scheduling.Monday)
	require.NoError(t, err)
	assert.NotNil(t, untouched)
}

func TestScheduleRepository_OneTemplatePerDay(t *testing.T) {
	gdb := testutil.OpenDB(t)
	doc := testutil.CreateDoctor(t, gdb, "Dr. Grey")

	testutil.CreateTemplate(t, gdb, testutil.MondayMorning(doc.ID))
	dup := testutil.MondayMorning(doc.ID)
	dup.ID = uuid.NewString()
	assert.Error(t, gdb.Create(dup).Error)
}

func TestWeeklyTemplate_DayTemplate(t *testing.T) {
	tpl, err := testutil.MondayMorning("doc").DayTemplate()
	require.NoError(t, err)
	assert.Equal(t, scheduling.MustClock("09:00"), tpl.Start)
	assert.Equal(t, []scheduling.Break{{Start: scheduling.MustClock("10:00"), End: scheduling.MustClock("10:30")}}, tpl.Breaks)
	assert.Equal(t, 3, scheduling.CountSlots(tpl))
}
