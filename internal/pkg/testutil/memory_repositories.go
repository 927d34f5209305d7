// Package testutil provides in-memory implementations of the storage and
// infrastructure contracts for use in unit tests. They mirror the semantics
// of the real mongo/redis implementations, including the compare-and-swap
// behavior of conditional updates.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.TimeSlot

	// InsertErr, when set, fails the next Insert.
	InsertErr error
}

func NewSlotRepo() *SlotRepo {
	return &SlotRepo{slots: make(map[string]*models.TimeSlot)}
}

// Seed stores a slot directly and returns its generated id.
func (r *SlotRepo) Seed(slot models.TimeSlot) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slot.ID.IsZero() {
		slot.ID = primitive.NewObjectID()
	}
	r.slots[slot.ID.Hex()] = &slot
	return slot.ID.Hex()
}

func (r *SlotRepo) Get(slotID string) *models.TimeSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slot, ok := r.slots[slotID]; ok {
		copied := *slot
		return &copied
	}
	return nil
}

func (r *SlotRepo) Insert(ctx context.Context, slot *models.TimeSlot) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.InsertErr != nil {
		err := r.InsertErr
		r.InsertErr = nil
		return "", err
	}
	copied := *slot
	copied.ID = primitive.NewObjectID()
	now := time.Now()
	copied.CreatedAt = now
	copied.UpdatedAt = now
	r.slots[copied.ID.Hex()] = &copied
	return copied.ID.Hex(), nil
}

func (r *SlotRepo) FindByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	return r.Get(slotID), nil
}

func (r *SlotRepo) FindByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.TimeSlot, error) {
	return r.filter(func(s *models.TimeSlot) bool {
		return s.DoctorID == doctorID && s.Date == date
	}), nil
}

func (r *SlotRepo) FindByDoctorAndRange(ctx context.Context, doctorID, startDate, endDate string) ([]models.TimeSlot, error) {
	return r.filter(func(s *models.TimeSlot) bool {
		return s.DoctorID == doctorID && s.Date >= startDate && s.Date <= endDate
	}), nil
}

func (r *SlotRepo) FindByExternalEventID(ctx context.Context, doctorID, externalEventID string) (*models.TimeSlot, error) {
	matches := r.filter(func(s *models.TimeSlot) bool {
		return s.DoctorID == doctorID && s.ExternalEventID == externalEventID
	})
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (r *SlotRepo) FindUnlinkedForExport(ctx context.Context, doctorID, startDate, endDate string) ([]models.TimeSlot, error) {
	return r.filter(func(s *models.TimeSlot) bool {
		return s.DoctorID == doctorID &&
			s.Date >= startDate && s.Date <= endDate &&
			s.Status == models.SlotStatusBooked &&
			s.ExternalEventID == ""
	}), nil
}

func (r *SlotRepo) UpdateStatusIf(ctx context.Context, slotID string, from, to models.SlotStatus) (*models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[slotID]
	if !ok || slot.Status != from {
		return nil, nil
	}
	slot.Status = to
	slot.UpdatedAt = time.Now()
	copied := *slot
	return &copied, nil
}

func (r *SlotRepo) UpdateFromExternal(ctx context.Context, slotID string, expected models.SlotStatus, patch contracts.SlotExternalPatch) (*models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[slotID]
	if !ok || slot.Status != expected {
		return nil, nil
	}
	now := time.Now()
	slot.Date = patch.Date
	slot.StartTime = patch.StartTime
	slot.EndTime = patch.EndTime
	slot.Status = patch.Status
	slot.LastSyncedAt = &now
	slot.UpdatedAt = now
	copied := *slot
	return &copied, nil
}

func (r *SlotRepo) SetExternalEventID(ctx context.Context, slotID, externalEventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[slotID]
	if !ok {
		return exceptions.ErrSlotNotFound(nil)
	}
	now := time.Now()
	slot.ExternalEventID = externalEventID
	slot.LastSyncedAt = &now
	slot.UpdatedAt = now
	return nil
}

func (r *SlotRepo) Delete(ctx context.Context, slotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, slotID)
	return nil
}

func (r *SlotRepo) filter(keep func(*models.TimeSlot) bool) []models.TimeSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TimeSlot
	for _, slot := range r.slots {
		if keep(slot) {
			out = append(out, *slot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

type AppointmentRepo struct {
	mu           sync.Mutex
	appointments map[string]*models.Appointment
}

func NewAppointmentRepo() *AppointmentRepo {
	return &AppointmentRepo{appointments: make(map[string]*models.Appointment)}
}

func (r *AppointmentRepo) Seed(appointment models.Appointment) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}
	r.appointments[appointment.ID.Hex()] = &appointment
	return appointment.ID.Hex()
}

func (r *AppointmentRepo) Insert(ctx context.Context, appointment *models.Appointment) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *appointment
	copied.ID = primitive.NewObjectID()
	now := time.Now()
	copied.CreatedAt = now
	copied.UpdatedAt = now
	r.appointments[copied.ID.Hex()] = &copied
	return copied.ID.Hex(), nil
}

func (r *AppointmentRepo) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appointment, ok := r.appointments[appointmentID]; ok {
		copied := *appointment
		return &copied, nil
	}
	return nil, nil
}

func (r *AppointmentRepo) FindActiveBySlotID(ctx context.Context, slotID string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, appointment := range r.appointments {
		if appointment.TimeSlotID == slotID && appointment.Status.Active() {
			copied := *appointment
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *AppointmentRepo) FindByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return r.filter(func(a *models.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (r *AppointmentRepo) FindByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return r.filter(func(a *models.Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, appointmentID string, status models.AppointmentStatus) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	appointment.Status = status
	appointment.UpdatedAt = time.Now()
	copied := *appointment
	return &copied, nil
}

func (r *AppointmentRepo) UpdateReason(ctx context.Context, appointmentID, reason string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	appointment.ReasonForVisit = reason
	appointment.UpdatedAt = time.Now()
	copied := *appointment
	return &copied, nil
}

func (r *AppointmentRepo) SetMeetingLink(ctx context.Context, appointmentID, link, eventID string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	appointment.MeetingLink = link
	appointment.MeetingEventID = eventID
	appointment.UpdatedAt = time.Now()
	copied := *appointment
	return &copied, nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.appointments, appointmentID)
	return nil
}

func (r *AppointmentRepo) filter(keep func(*models.Appointment) bool) []models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, appointment := range r.appointments {
		if keep(appointment) {
			out = append(out, *appointment)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type DoctorRepo struct {
	mu      sync.Mutex
	doctors map[string]*models.Doctor
}

func NewDoctorRepo() *DoctorRepo {
	return &DoctorRepo{doctors: make(map[string]*models.Doctor)}
}

func (r *DoctorRepo) Seed(doctor models.Doctor) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}
	r.doctors[doctor.ID.Hex()] = &doctor
	return doctor.ID.Hex()
}

func (r *DoctorRepo) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doctor, ok := r.doctors[doctorID]; ok {
		copied := *doctor
		return &copied, nil
	}
	return nil, nil
}

func (r *DoctorRepo) Resolve(ctx context.Context, identifier string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doctor, ok := r.doctors[identifier]; ok {
		copied := *doctor
		return &copied, nil
	}
	for _, doctor := range r.doctors {
		if doctor.LicenseNumber == identifier {
			copied := *doctor
			return &copied, nil
		}
	}
	return nil, nil
}

type PatientRepo struct {
	mu       sync.Mutex
	patients map[string]*models.Patient
}

func NewPatientRepo() *PatientRepo {
	return &PatientRepo{patients: make(map[string]*models.Patient)}
}

func (r *PatientRepo) Seed(patient models.Patient) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if patient.ID.IsZero() {
		patient.ID = primitive.NewObjectID()
	}
	r.patients[patient.ID.Hex()] = &patient
	return patient.ID.Hex()
}

func (r *PatientRepo) FindByID(ctx context.Context, patientID string) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if patient, ok := r.patients[patientID]; ok {
		copied := *patient
		return &copied, nil
	}
	return nil, nil
}

type TemplateRepo struct {
	mu        sync.Mutex
	templates map[string][]models.AvailabilityTemplate
}

func NewTemplateRepo() *TemplateRepo {
	return &TemplateRepo{templates: make(map[string][]models.AvailabilityTemplate)}
}

func (r *TemplateRepo) ReplaceForDoctor(ctx context.Context, doctorID string, templates []models.AvailabilityTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[doctorID] = append([]models.AvailabilityTemplate(nil), templates...)
	return nil
}

func (r *TemplateRepo) FindByDoctor(ctx context.Context, doctorID string) ([]models.AvailabilityTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AvailabilityTemplate(nil), r.templates[doctorID]...), nil
}

func (r *TemplateRepo) DistinctDoctorIDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for doctorID, templates := range r.templates {
		if len(templates) > 0 {
			ids = append(ids, doctorID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type CredentialRepo struct {
	mu          sync.Mutex
	credentials map[string]*models.CalendarCredential
}

func NewCredentialRepo() *CredentialRepo {
	return &CredentialRepo{credentials: make(map[string]*models.CalendarCredential)}
}

func (r *CredentialRepo) Upsert(ctx context.Context, credential *models.CalendarCredential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *credential
	r.credentials[credential.OwnerID] = &copied
	return nil
}

func (r *CredentialRepo) FindByOwnerID(ctx context.Context, ownerID string) (*models.CalendarCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if credential, ok := r.credentials[ownerID]; ok {
		copied := *credential
		return &copied, nil
	}
	return nil, nil
}

func (r *CredentialRepo) Delete(ctx context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.credentials, ownerID)
	return nil
}
