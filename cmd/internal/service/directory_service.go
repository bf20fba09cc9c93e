package service

import (
	"carebook/cmd/internal/domain/entity"
	"carebook/cmd/internal/utils"
	"carebook/cmd/internal/utils/apierror"
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

// Me stands for the caller's own record in /doctors/:id and /patients/:id.
const Me = "@me"

type DoctorStore interface {
	DoctorRepository
	FindAll(ctx context.Context) ([]*entity.Doctor, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, doctor *entity.Doctor) error
}

type PatientStore interface {
	PatientRepository
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, patient *entity.Patient) error
}

type CreateDoctorRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=120"`
	Email          string `json:"email" validate:"required,email"`
	Specialization string `json:"specialization" validate:"max=120"`
}

type CreatePatientRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=120"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,e164"`
}

type DoctorResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type PatientResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// DefaultDirectoryService keeps the doctor and patient records that
// scheduling refers to.
type DefaultDirectoryService struct {
	DoctorRepo  DoctorStore
	PatientRepo PatientStore
	Validate    *validator.Validate
}

func NewDirectoryService(doctorRepo DoctorStore, patientRepo PatientStore, validate *validator.Validate) *DefaultDirectoryService {
	return &DefaultDirectoryService{DoctorRepo: doctorRepo, PatientRepo: patientRepo, Validate: validate}
}

func (d *DefaultDirectoryService) GetDoctors(ctx context.Context) ([]*DoctorResponse, apierror.ErrorResponse) {
	doctors, err := d.DoctorRepo.FindAll(ctx)
	if err != nil {
		log.Errorf("failed to fetch all doctors: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		resp[i] = toDoctorResponse(doctor)
	}
	return resp, nil
}

func (d *DefaultDirectoryService) GetDoctor(ctx context.Context, rawID, sub string) (*DoctorResponse, apierror.ErrorResponse) {
	id, apierr := resolveID(rawID, sub)
	if apierr != nil {
		return nil, apierr
	}

	doctor, err := d.DoctorRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to find doctor (%s) by id: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if doctor == nil {
		return nil, apierror.DoctorNotFoundError
	}
	return toDoctorResponse(doctor), nil
}

func (d *DefaultDirectoryService) CreateDoctor(ctx context.Context, req *CreateDoctorRequest) (*DoctorResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := d.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := d.DoctorRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to check if doctor already exists: %v", err)
		return nil, apierror.InternalServerError
	}
	if found {
		return nil, apierror.EmailInUseError
	}

	now := utils.NowUTC()
	doctor := &entity.Doctor{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		Specialization: req.Specialization,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = d.DoctorRepo.Save(ctx, doctor)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierror.EmailInUseError
	}
	if err != nil {
		log.Errorf("failed to create doctor: %v", err)
		return nil, apierror.InternalServerError
	}
	return toDoctorResponse(doctor), nil
}

func (d *DefaultDirectoryService) GetPatient(ctx context.Context, rawID, sub string) (*PatientResponse, apierror.ErrorResponse) {
	id, apierr := resolveID(rawID, sub)
	if apierr != nil {
		return nil, apierr
	}

	patient, err := d.PatientRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to find patient (%s) by id: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if patient == nil {
		return nil, apierror.PatientNotFoundError
	}
	return toPatientResponse(patient), nil
}

func (d *DefaultDirectoryService) CreatePatient(ctx context.Context, req *CreatePatientRequest) (*PatientResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := d.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := d.PatientRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to check if patient already exists: %v", err)
		return nil, apierror.InternalServerError
	}
	if found {
		return nil, apierror.EmailInUseError
	}

	now := utils.NowUTC()
	patient := &entity.Patient{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = d.PatientRepo.Save(ctx, patient)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierror.EmailInUseError
	}
	if err != nil {
		log.Errorf("failed to create patient: %v", err)
		return nil, apierror.InternalServerError
	}
	return toPatientResponse(patient), nil
}

func resolveID(rawID, sub string) (string, apierror.ErrorResponse) {
	if rawID != Me {
		return rawID, nil
	}
	if sub == "" {
		return "", apierror.InvalidAuthTokenError
	}
	return sub, nil
}

func toDoctorResponse(doctor *entity.Doctor) *DoctorResponse {
	return &DoctorResponse{
		ID:             doctor.ID,
		Name:           doctor.Name,
		Email:          doctor.Email,
		Specialization: doctor.Specialization,
		CreatedAt:      utils.FormatEpoch(doctor.CreatedAt),
		UpdatedAt:      utils.FormatEpoch(doctor.UpdatedAt),
	}
}

func toPatientResponse(patient *entity.Patient) *PatientResponse {
	return &PatientResponse{
		ID:        patient.ID,
		Name:      patient.Name,
		Email:     patient.Email,
		Phone:     patient.Phone,
		CreatedAt: utils.FormatEpoch(patient.CreatedAt),
		UpdatedAt: utils.FormatEpoch(patient.UpdatedAt),
	}
}
