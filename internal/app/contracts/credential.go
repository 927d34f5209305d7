package contracts

import (
	"clinicore-service/internal/app/models"
	"context"
)

type CredentialRepository interface {
	Upsert(ctx context.Context, credential *models.CalendarCredential) error
	FindByOwnerID(ctx context.Context, ownerID string) (*models.CalendarCredential, error)
	Delete(ctx context.Context, ownerID string) error
}

// CredentialService stores refresh credentials and turns them into ready
// calendar client handles. Every failure path maps to a credential error
// that means the owner has to reconnect.
type CredentialService interface {
	StoreCredential(ctx context.Context, ownerID, refreshToken string) error
	GetAccessHandle(ctx context.Context, ownerID string) (CalendarClient, error)
	Disconnect(ctx context.Context, ownerID string) error
}
