package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/patient"
)

type fakePatientRepo struct {
	patients      map[uuid.UUID]*patient.Patient
	histories     map[uuid.UUID]*patient.MedicalHistory
	allergies     map[uuid.UUID]*patient.Allergy
	immunizations map[uuid.UUID]*patient.Immunization
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{
		patients:      map[uuid.UUID]*patient.Patient{},
		histories:     map[uuid.UUID]*patient.MedicalHistory{},
		allergies:     map[uuid.UUID]*patient.Allergy{},
		immunizations: map[uuid.UUID]*patient.Immunization{},
	}
}

func (f *fakePatientRepo) Create(_ context.Context, p *patient.Patient) error {
	for _, existing := range f.patients {
		if existing.UserID == p.UserID {
			return patient.ErrPatientAlreadyExists
		}
	}
	p.ID = uuid.New()
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return p, nil
}

func (f *fakePatientRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*patient.Patient, error) {
	for _, p := range f.patients {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (f *fakePatientRepo) Update(_ context.Context, id uuid.UUID, _ *patient.UpdatePatientCommand) (*patient.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return p, nil
}

func (f *fakePatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.patients[id]; !ok {
		return patient.ErrPatientNotFound
	}
	delete(f.patients, id)
	return nil
}

func (f *fakePatientRepo) List(_ context.Context, _ *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	return &patient.PagedPatients{TotalCount: int64(len(f.patients))}, nil
}

func (f *fakePatientRepo) CreateHistory(_ context.Context, h *patient.MedicalHistory) error {
	h.ID = uuid.New()
	f.histories[h.ID] = h
	return nil
}

func (f *fakePatientRepo) GetHistory(_ context.Context, id uuid.UUID) (*patient.MedicalHistory, error) {
	h, ok := f.histories[id]
	if !ok {
		return nil, patient.ErrHistoryNotFound
	}
	return h, nil
}

func (f *fakePatientRepo) UpdateHistory(_ context.Context, id uuid.UUID, _ *patient.UpdateMedicalHistoryCommand) (*patient.MedicalHistory, error) {
	h, ok := f.histories[id]
	if !ok {
		return nil, patient.ErrHistoryNotFound
	}
	return h, nil
}

func (f *fakePatientRepo) DeleteHistory(_ context.Context, id uuid.UUID) error {
	if _, ok := f.histories[id]; !ok {
		return patient.ErrHistoryNotFound
	}
	delete(f.histories, id)
	return nil
}

func (f *fakePatientRepo) ListHistories(_ context.Context, patientID uuid.UUID) ([]*patient.MedicalHistory, error) {
	var out []*patient.MedicalHistory
	for _, h := range f.histories {
		if h.PatientID == patientID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakePatientRepo) CreateAllergy(_ context.Context, a *patient.Allergy) error {
	a.ID = uuid.New()
	f.allergies[a.ID] = a
	return nil
}

func (f *fakePatientRepo) GetAllergy(_ context.Context, id uuid.UUID) (*patient.Allergy, error) {
	a, ok := f.allergies[id]
	if !ok {
		return nil, patient.ErrAllergyNotFound
	}
	return a, nil
}

func (f *fakePatientRepo) UpdateAllergy(_ context.Context, id uuid.UUID, _ *patient.UpdateAllergyCommand) (*patient.Allergy, error) {
	a, ok := f.allergies[id]
	if !ok {
		return nil, patient.ErrAllergyNotFound
	}
	return a, nil
}

func (f *fakePatientRepo) DeleteAllergy(_ context.Context, id uuid.UUID) error {
	if _, ok := f.allergies[id]; !ok {
		return patient.ErrAllergyNotFound
	}
	delete(f.allergies, id)
	return nil
}

func (f *fakePatientRepo) ListAllergies(_ context.Context, patientID uuid.UUID) ([]*patient.Allergy, error) {
	var out []*patient.Allergy
	for _, a := range f.allergies {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakePatientRepo) CreateImmunization(_ context.Context, im *patient.Immunization) error {
	im.ID = uuid.New()
	f.immunizations[im.ID] = im
	return nil
}

func (f *fakePatientRepo) GetImmunization(_ context.Context, id uuid.UUID) (*patient.Immunization, error) {
	im, ok := f.immunizations[id]
	if !ok {
		return nil, patient.ErrImmunizationNotFound
	}
	return im, nil
}

func (f *fakePatientRepo) UpdateImmunization(_ context.Context, id uuid.UUID, _ *patient.UpdateImmunizationCommand) (*patient.Immunization, error) {
	im, ok := f.immunizations[id]
	if !ok {
		return nil, patient.ErrImmunizationNotFound
	}
	return im, nil
}

func (f *fakePatientRepo) DeleteImmunization(_ context.Context, id uuid.UUID) error {
	if _, ok := f.immunizations[id]; !ok {
		return patient.ErrImmunizationNotFound
	}
	delete(f.immunizations, id)
	return nil
}

func (f *fakePatientRepo) ListImmunizations(_ context.Context, patientID uuid.UUID) ([]*patient.Immunization, error) {
	var out []*patient.Immunization
	for _, im := range f.immunizations {
		if im.PatientID == patientID {
			out = append(out, im)
		}
	}
	return out, nil
}

func newPatientService(repo patient.Repository) *PatientService {
	return NewPatientService(repo, newTestAudit(), nil, zap.NewNop())
}

func validCreatePatient() *patient.CreatePatientCommand {
	return &patient.CreatePatientCommand{
		UserID:      uuid.New(),
		FirstName:   "Dana",
		LastName:    "Reyes",
		DateOfBirth: time.Date(1987, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:      patient.GenderFemale,
	}
}

func TestStaffMayCreateButNotDeletePatients(t *testing.T) {
	repo := newFakePatientRepo()
	svc := newPatientService(repo)

	staff := staffActor()
	p, err := svc.CreatePatient(context.Background(), staff, validCreatePatient(), "")
	require.NoError(t, err)

	err = svc.DeletePatient(context.Background(), staff, p.ID, "")
	assert.ErrorIs(t, err, access.ErrDenied)

	err = svc.DeletePatient(context.Background(), adminActor(), p.ID, "")
	assert.NoError(t, err)
}

func TestCreatePatientRejectsSecondRecordPerUser(t *testing.T) {
	repo := newFakePatientRepo()
	svc := newPatientService(repo)

	cmd := validCreatePatient()
	_, err := svc.CreatePatient(context.Background(), staffActor(), cmd, "")
	require.NoError(t, err)

	dup := validCreatePatient()
	dup.UserID = cmd.UserID
	_, err = svc.CreatePatient(context.Background(), staffActor(), dup, "")
	assert.ErrorIs(t, err, patient.ErrPatientAlreadyExists)
}

func TestCreatePatientValidatesDemographics(t *testing.T) {
	svc := newPatientService(newFakePatientRepo())

	cmd := validCreatePatient()
	cmd.DateOfBirth = time.Now().AddDate(1, 0, 0)
	cmd.Gender = "X"
	_, err := svc.CreatePatient(context.Background(), staffActor(), cmd, "")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestHistoryMutationsRequireDoctor(t *testing.T) {
	repo := newFakePatientRepo()
	svc := newPatientService(repo)

	p, err := svc.CreatePatient(context.Background(), staffActor(), validCreatePatient(), "")
	require.NoError(t, err)

	cmd := &patient.CreateMedicalHistoryCommand{
		PatientID:     p.ID,
		Condition:     "Hypertension",
		DiagnosisDate: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err = svc.CreateHistory(context.Background(), nurseActor(), cmd, "")
	assert.ErrorIs(t, err, access.ErrDenied)

	h, err := svc.CreateHistory(context.Background(), doctorActor(), cmd, "")
	require.NoError(t, err)
	assert.Equal(t, p.ID, h.PatientID)
}

func TestCreateHistoryRequiresExistingPatient(t *testing.T) {
	svc := newPatientService(newFakePatientRepo())

	_, err := svc.CreateHistory(context.Background(), doctorActor(), &patient.CreateMedicalHistoryCommand{
		PatientID:     uuid.New(),
		Condition:     "Hypertension",
		DiagnosisDate: time.Now(),
	}, "")
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)
}

func TestCreateImmunizationDefaultsAdministeredByToActor(t *testing.T) {
	repo := newFakePatientRepo()
	svc := newPatientService(repo)

	p, err := svc.CreatePatient(context.Background(), staffActor(), validCreatePatient(), "")
	require.NoError(t, err)

	nurse := nurseActor()
	im, err := svc.CreateImmunization(context.Background(), nurse, &patient.CreateImmunizationCommand{
		PatientID:          p.ID,
		Vaccine:            "Influenza",
		AdministrationDate: time.Now(),
	}, "")
	require.NoError(t, err)
	require.NotNil(t, im.AdministeredBy)
	assert.Equal(t, nurse.UserID, *im.AdministeredBy)
}
