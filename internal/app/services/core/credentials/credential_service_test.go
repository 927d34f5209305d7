package credentials

import (
	"context"
	"testing"
	"time"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/pkg/exceptions"
	"clinicore-service/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testHexKey = "5c4f2a9d13b68e07fa31c85d92e64b70a8f15c3e6d29b47081fa5c3d9e62b814"

type stubTokenClient struct {
	accessToken string
	err         error
	exchanged   []string
}

func (s *stubTokenClient) Exchange(ctx context.Context, refreshToken string) (string, time.Duration, error) {
	s.exchanged = append(s.exchanged, refreshToken)
	if s.err != nil {
		return "", 0, s.err
	}
	return s.accessToken, time.Hour, nil
}

func newTestCredentialService(t *testing.T, tokens *stubTokenClient) (*credentialService, *testutil.CredentialRepo) {
	t.Helper()
	repo := testutil.NewCredentialRepo()
	cipher, err := newTokenCipher(testHexKey)
	assert.NoError(t, err)
	calendar := testutil.NewCalendar()
	svc := &credentialService{
		CredentialRepository: repo,
		TokenClient:          tokens,
		Factory:              func(string) contracts.CalendarClient { return calendar },
		Cipher:               cipher,
		Log:                  zap.NewNop(),
	}
	return svc, repo
}

func TestTokenCipher(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		cipher, err := newTokenCipher(testHexKey)
		assert.NoError(t, err)

		sealed, err := cipher.Encrypt("refresh-token-1")
		assert.NoError(t, err)
		assert.NotContains(t, string(sealed), "refresh-token-1", "ciphertext must not contain the plaintext")

		plain, err := cipher.Decrypt(sealed)
		assert.NoError(t, err)
		assert.Equal(t, "refresh-token-1", plain)
	})

	t.Run("Distinct Nonces", func(t *testing.T) {
		cipher, _ := newTokenCipher(testHexKey)
		first, _ := cipher.Encrypt("same")
		second, _ := cipher.Encrypt("same")
		assert.NotEqual(t, first, second, "each encryption should use a fresh nonce")
	})

	t.Run("Tampered Ciphertext Rejected", func(t *testing.T) {
		cipher, _ := newTokenCipher(testHexKey)
		sealed, _ := cipher.Encrypt("secret")
		sealed[len(sealed)-1] ^= 0xff
		_, err := cipher.Decrypt(sealed)
		assert.Error(t, err)
	})

	t.Run("Bad Key Rejected", func(t *testing.T) {
		_, err := newTokenCipher("deadbeef")
		assert.Error(t, err)

		_, err = newTokenCipher("not hex at all")
		assert.Error(t, err)
	})
}

func TestStoreCredential(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores Encrypted", func(t *testing.T) {
		svc, repo := newTestCredentialService(t, &stubTokenClient{accessToken: "at-1"})

		err := svc.StoreCredential(ctx, "owner-1", "refresh-1")
		assert.NoError(t, err)

		stored, _ := repo.FindByOwnerID(ctx, "owner-1")
		assert.NotNil(t, stored)
		assert.NotContains(t, string(stored.EncryptedRefreshToken), "refresh-1")
		assert.False(t, stored.LastRefreshedAt.IsZero())
	})

	t.Run("Unchanged Token Is NoOp", func(t *testing.T) {
		svc, repo := newTestCredentialService(t, &stubTokenClient{accessToken: "at-1"})

		assert.NoError(t, svc.StoreCredential(ctx, "owner-1", "refresh-1"))
		first, _ := repo.FindByOwnerID(ctx, "owner-1")

		assert.NoError(t, svc.StoreCredential(ctx, "owner-1", "refresh-1"))
		second, _ := repo.FindByOwnerID(ctx, "owner-1")
		assert.Equal(t, first.EncryptedRefreshToken, second.EncryptedRefreshToken, "re-storing the same token should not rewrite the record")
	})

	t.Run("New Token Replaces Old", func(t *testing.T) {
		svc, repo := newTestCredentialService(t, &stubTokenClient{accessToken: "at-1"})

		assert.NoError(t, svc.StoreCredential(ctx, "owner-1", "refresh-1"))
		assert.NoError(t, svc.StoreCredential(ctx, "owner-1", "refresh-2"))

		stored, _ := repo.FindByOwnerID(ctx, "owner-1")
		plain, err := svc.Cipher.Decrypt(stored.EncryptedRefreshToken)
		assert.NoError(t, err)
		assert.Equal(t, "refresh-2", plain)
	})
}

func TestGetAccessHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("Exchanges Stored Token", func(t *testing.T) {
		tokens := &stubTokenClient{accessToken: "at-1"}
		svc, _ := newTestCredentialService(t, tokens)
		assert.NoError(t, svc.StoreCredential(ctx, "owner-1", "refresh-1"))

		handle, err := svc.GetAccessHandle(ctx, "owner-1")
		assert.NoError(t, err)
		assert.NotNil(t, handle)
		assert.Equal(t, []string{"refresh-1"}, tokens.exchanged, "the decrypted refresh token should be what is exchanged")
	})

	t.Run("No Stored Credential", func(t *testing.T) {
		svc, _ := newTestCredentialService(t, &stubTokenClient{accessToken: "at-1"})

		_, err := svc.GetAccessHandle(ctx, "owner-1")
		assert.True(t, exceptions.IsCredential(err), "missing credential should signal reconnect required")
	})

	t.Run("Exchange Rejection Propagates", func(t *testing.T) {
		tokens := &stubTokenClient{err: exceptions.ErrCredentialExchange(nil)}
		svc, _ := newTestCredentialService(t, tokens)
		assert.NoError(t, svc.StoreCredential(ctx, "owner-1", "refresh-1"))

		_, err := svc.GetAccessHandle(ctx, "owner-1")
		assert.True(t, exceptions.IsCredential(err))
	})

	t.Run("Undecryptable Credential", func(t *testing.T) {
		svc, repo := newTestCredentialService(t, &stubTokenClient{accessToken: "at-1"})
		assert.NoError(t, svc.StoreCredential(ctx, "owner-1", "refresh-1"))

		stored, _ := repo.FindByOwnerID(ctx, "owner-1")
		stored.EncryptedRefreshToken[0] ^= 0xff
		repo.Upsert(ctx, stored)

		_, err := svc.GetAccessHandle(ctx, "owner-1")
		assert.True(t, exceptions.IsCredential(err))
	})
}

func TestDisconnect(t *testing.T) {
	ctx := context.Background()

	t.Run("Removes Credential", func(t *testing.T) {
		svc, repo := newTestCredentialService(t, &stubTokenClient{accessToken: "at-1"})
		assert.NoError(t, svc.StoreCredential(ctx, "owner-1", "refresh-1"))

		assert.NoError(t, svc.Disconnect(ctx, "owner-1"))

		stored, _ := repo.FindByOwnerID(ctx, "owner-1")
		assert.Nil(t, stored)
	})

	t.Run("Disconnect Without Credential Is NoOp", func(t *testing.T) {
		svc, _ := newTestCredentialService(t, &stubTokenClient{accessToken: "at-1"})
		assert.NoError(t, svc.Disconnect(ctx, "owner-1"))
	})
}
