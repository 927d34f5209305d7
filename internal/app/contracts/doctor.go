package contracts

import (
	"clinicore-service/internal/app/models"
	"context"
)

// DoctorRepository resolves and reads the minimal doctor record. Resolve is
// the single resolution path for every entry point that accepts a doctor
// identifier: it matches either the canonical id or the license number and
// returns the canonical id.
type DoctorRepository interface {
	FindByID(ctx context.Context, doctorID string) (*models.Doctor, error)
	Resolve(ctx context.Context, identifier string) (*models.Doctor, error)
}

type PatientRepository interface {
	FindByID(ctx context.Context, patientID string) (*models.Patient, error)
}
