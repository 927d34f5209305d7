package contracts

import (
	"clinicore-service/internal/app/models"
	"context"
)

type TemplateRepository interface {
	ReplaceForDoctor(ctx context.Context, doctorID string, templates []models.AvailabilityTemplate) error
	FindByDoctor(ctx context.Context, doctorID string) ([]models.AvailabilityTemplate, error)
	// DistinctDoctorIDs lists every doctor with a stored template; the
	// top-up worker iterates over them.
	DistinctDoctorIDs(ctx context.Context) ([]string, error)
}
