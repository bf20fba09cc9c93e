package routes

import (
	"carebook/cmd/internal/service"
	"carebook/cmd/internal/utils"
	"carebook/cmd/internal/utils/apierror"
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type DirectoryService interface {
	GetDoctors(ctx context.Context) ([]*service.DoctorResponse, apierror.ErrorResponse)
	GetDoctor(ctx context.Context, rawID, sub string) (*service.DoctorResponse, apierror.ErrorResponse)
	CreateDoctor(ctx context.Context, req *service.CreateDoctorRequest) (*service.DoctorResponse, apierror.ErrorResponse)
	GetPatient(ctx context.Context, rawID, sub string) (*service.PatientResponse, apierror.ErrorResponse)
	CreatePatient(ctx context.Context, req *service.CreatePatientRequest) (*service.PatientResponse, apierror.ErrorResponse)
}

type DefaultDirectoryRoute struct {
	DirectoryService DirectoryService
}

func NewDirectoryDefault(dirService DirectoryService) *DefaultDirectoryRoute {
	return &DefaultDirectoryRoute{DirectoryService: dirService}
}

func (d *DefaultDirectoryRoute) GetDoctors(c echo.Context) error {
	doctors, apierr := d.DirectoryService.GetDoctors(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"doctors": doctors}
	return c.JSON(http.StatusOK, &resp)
}

func (d *DefaultDirectoryRoute) GetDoctor(c echo.Context) error {
	rawID := strings.TrimSpace(c.Param("id"))
	if rawID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	doctor, apierr := d.DirectoryService.GetDoctor(c.Request().Context(), rawID, subject(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, doctor)
}

func (d *DefaultDirectoryRoute) CreateDoctor(c echo.Context) error {
	var req service.CreateDoctorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	doctor, apierr := d.DirectoryService.CreateDoctor(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, doctor)
}

func (d *DefaultDirectoryRoute) GetPatient(c echo.Context) error {
	rawID := strings.TrimSpace(c.Param("id"))
	if rawID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	patient, apierr := d.DirectoryService.GetPatient(c.Request().Context(), rawID, subject(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, patient)
}

func (d *DefaultDirectoryRoute) CreatePatient(c echo.Context) error {
	var req service.CreatePatientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	patient, apierr := d.DirectoryService.CreatePatient(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, patient)
}

// subject is empty when auth is off.
func subject(c echo.Context) string {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return ""
	}
	return data.Sub
}
