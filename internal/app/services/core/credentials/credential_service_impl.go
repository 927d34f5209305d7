package credentials

import (
	"context"
	"sync"
	"time"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

// CalendarClientFactory binds a short-lived access token to a ready calendar
// client.
type CalendarClientFactory func(accessToken string) contracts.CalendarClient

type credentialService struct {
	CredentialRepository contracts.CredentialRepository
	TokenClient          contracts.TokenClient
	Factory              CalendarClientFactory
	Cipher               *tokenCipher
	Log                  *zap.Logger
}

var (
	credentialServiceInstance contracts.CredentialService
	onceCredentialService     sync.Once
)

func NewCredentialService(
	credentialRepository contracts.CredentialRepository,
	tokenClient contracts.TokenClient,
	factory CalendarClientFactory,
	encryptionHexKey string,
	logger *zap.Logger,
) (contracts.CredentialService, error) {
	cipher, err := newTokenCipher(encryptionHexKey)
	if err != nil {
		return nil, err
	}
	onceCredentialService.Do(func() {
		instance := &credentialService{
			CredentialRepository: credentialRepository,
			TokenClient:          tokenClient,
			Factory:              factory,
			Cipher:               cipher,
			Log:                  logger,
		}
		credentialServiceInstance = instance
	})
	return credentialServiceInstance, nil
}

func (s *credentialService) StoreCredential(ctx context.Context, ownerID, refreshToken string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("credentialService.StoreCredential called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOwnerIDKey, ownerID),
	)

	existing, err := s.CredentialRepository.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return err
	}
	if existing != nil {
		// re-authorization with the same token is a no-op
		if current, decryptErr := s.Cipher.Decrypt(existing.EncryptedRefreshToken); decryptErr == nil && current == refreshToken {
			s.Log.Info("credentialService.StoreCredential token unchanged",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingOwnerIDKey, ownerID),
			)
			return nil
		}
	}

	sealed, err := s.Cipher.Encrypt(refreshToken)
	if err != nil {
		return exceptions.ErrCredentialDecrypt(err)
	}

	return s.CredentialRepository.Upsert(ctx, &models.CalendarCredential{
		OwnerID:               ownerID,
		EncryptedRefreshToken: sealed,
		LastRefreshedAt:       time.Now(),
	})
}

func (s *credentialService) GetAccessHandle(ctx context.Context, ownerID string) (contracts.CalendarClient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("credentialService.GetAccessHandle called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOwnerIDKey, ownerID),
	)

	credential, err := s.CredentialRepository.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if credential == nil {
		return nil, exceptions.ErrCredentialNotStored(nil)
	}

	refreshToken, err := s.Cipher.Decrypt(credential.EncryptedRefreshToken)
	if err != nil {
		s.Log.Error("credentialService.GetAccessHandle cannot decrypt stored token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOwnerIDKey, ownerID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCredentialDecrypt(err)
	}

	accessToken, _, err := s.TokenClient.Exchange(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	return s.Factory(accessToken), nil
}

func (s *credentialService) Disconnect(ctx context.Context, ownerID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("credentialService.Disconnect called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOwnerIDKey, ownerID),
	)
	return s.CredentialRepository.Delete(ctx, ownerID)
}
