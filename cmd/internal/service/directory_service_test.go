package service_test

import (
	"carebook/cmd/internal/domain/db/repository"
	"carebook/cmd/internal/service"
	"carebook/cmd/internal/testutil"
	"carebook/cmd/internal/utils/apierror"
	"carebook/cmd/internal/utils/validators"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectory(t *testing.T) *service.DefaultDirectoryService {
	gdb := testutil.OpenDB(t)
	return service.NewDirectoryService(repository.NewDoctorRepository(gdb), repository.NewPatientRepository(gdb), validators.New())
}

func TestDirectory_Doctors(t *testing.T) {
	dir := newDirectory(t)
	ctx := context.Background()

	created, apierr := dir.CreateDoctor(ctx, &service.CreateDoctorRequest{Name: "  Meredith Grey ", Email: "grey@seattle.test", Specialization: "Surgery"})
	require.Nil(t, apierr)
	assert.Equal(t, "Meredith Grey", created.Name)

	_, apierr = dir.CreateDoctor(ctx, &service.CreateDoctorRequest{Name: "Other Grey", Email: "grey@seattle.test"})
	assert.ErrorIs(t, apierr, apierror.EmailInUseError)

	got, apierr := dir.GetDoctor(ctx, created.ID, "")
	require.Nil(t, apierr)
	assert.Equal(t, created.Email, got.Email)

	me, apierr := dir.GetDoctor(ctx, service.Me, created.ID)
	require.Nil(t, apierr)
	assert.Equal(t, created.ID, me.ID)

	_, apierr = dir.GetDoctor(ctx, service.Me, "")
	assert.ErrorIs(t, apierr, apierror.InvalidAuthTokenError)

	all, apierr := dir.GetDoctors(ctx)
	require.Nil(t, apierr)
	assert.Len(t, all, 1)
}

func TestDirectory_Patients(t *testing.T) {
	dir := newDirectory(t)
	ctx := context.Background()

	_, apierr := dir.CreatePatient(ctx, &service.CreatePatientRequest{Name: "A", Email: "not-an-email"})
	require.NotNil(t, apierr)
	assert.Equal(t, "ValidationError", apierr.Kind())

	created, apierr := dir.CreatePatient(ctx, &service.CreatePatientRequest{Name: "Ann Perkins", Email: "ann@pawnee.test", Phone: "+15551234567"})
	require.Nil(t, apierr)

	got, apierr := dir.GetPatient(ctx, created.ID, "")
	require.Nil(t, apierr)
	assert.Equal(t, "+15551234567", got.Phone)

	_, apierr = dir.GetPatient(ctx, "missing", "")
	assert.ErrorIs(t, apierr, apierror.PatientNotFoundError)
}
