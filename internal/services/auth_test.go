package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-auth-service/internal/hasher"
	"github.com/sbilibin2017/gw-auth-service/internal/jwt"
	"github.com/sbilibin2017/gw-auth-service/internal/models"
	"github.com/sbilibin2017/gw-auth-service/internal/repositories"
	"github.com/sbilibin2017/gw-auth-service/internal/services"
	"github.com/sbilibin2017/gw-auth-service/internal/validation"
)

type authMocks struct {
	reader *services.MockUserReader
	writer *services.MockUserWriter
	cache  *services.MockUserCache
	hash   *services.MockPasswordHasher
	jwt    *services.MockTokenService
	kafka  *services.MockKafkaWriter
}

func newAuthService(t *testing.T) (*services.AuthService, authMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := authMocks{
		reader: services.NewMockUserReader(ctrl),
		writer: services.NewMockUserWriter(ctrl),
		cache:  services.NewMockUserCache(ctrl),
		hash:   services.NewMockPasswordHasher(ctrl),
		jwt:    services.NewMockTokenService(ctrl),
		kafka:  services.NewMockKafkaWriter(ctrl),
	}

	svc := services.NewAuthService(m.reader, m.writer, m.cache, m.hash, m.jwt, m.kafka)
	return svc, m
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.reader.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(nil, nil)
		m.hash.EXPECT().Hash("pass123").Return("digest", nil)
		m.writer.EXPECT().
			Save(gomock.Any(), gomock.AssignableToTypeOf(&models.UserDB{})).
			DoAndReturn(func(_ context.Context, user *models.UserDB) error {
				assert.NotEqual(t, uuid.Nil, user.UserID)
				assert.Equal(t, "alice@example.com", user.Email)
				assert.Equal(t, "alice", user.Username)
				assert.Equal(t, "digest", user.PasswordHash)
				assert.False(t, user.CreatedOn.IsZero())
				return nil
			})
		m.cache.EXPECT().Delete(gomock.Any(), "alice@example.com").Return(nil)
		m.jwt.EXPECT().Generate(gomock.Any(), gomock.Any(), "alice@example.com").Return("token123", nil)
		m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		token, err := svc.Register(ctx, "alice@example.com", "alice", "pass123")
		assert.NoError(t, err)
		assert.Equal(t, "token123", token)
	})

	t.Run("email is normalized before lookup and insert", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.reader.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(nil, nil)
		m.hash.EXPECT().Hash("pass123").Return("digest", nil)
		m.writer.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user *models.UserDB) error {
				assert.Equal(t, "alice@example.com", user.Email)
				return nil
			})
		m.cache.EXPECT().Delete(gomock.Any(), "alice@example.com").Return(nil)
		m.jwt.EXPECT().Generate(gomock.Any(), gomock.Any(), "alice@example.com").Return("token123", nil)
		m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Register(ctx, "Alice@Example.COM", "alice", "pass123")
		assert.NoError(t, err)
	})

	t.Run("validation failure makes no external calls", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register(ctx, "not-an-email", "alice", "pass123")

		var vErr *validation.Error
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("duplicate email found by lookup", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.reader.EXPECT().
			GetByEmail(gomock.Any(), "bob@example.com").
			Return(&models.UserDB{UserID: uuid.New(), Email: "bob@example.com"}, nil)

		_, err := svc.Register(ctx, "bob@example.com", "bob", "pass123")
		assert.ErrorIs(t, err, services.ErrEmailAlreadyExists)
	})

	t.Run("duplicate email caught by unique index", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.reader.EXPECT().GetByEmail(gomock.Any(), "bob@example.com").Return(nil, nil)
		m.hash.EXPECT().Hash("pass123").Return("digest", nil)
		m.writer.EXPECT().Save(gomock.Any(), gomock.Any()).Return(repositories.ErrEmailExists)

		_, err := svc.Register(ctx, "bob@example.com", "bob", "pass123")
		assert.ErrorIs(t, err, services.ErrEmailAlreadyExists)
	})

	t.Run("reader error aborts", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.reader.EXPECT().GetByEmail(gomock.Any(), "eve@example.com").Return(nil, errors.New("db error"))

		_, err := svc.Register(ctx, "eve@example.com", "eve", "pass123")
		assert.EqualError(t, err, "db error")
	})

	t.Run("hash error aborts", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.reader.EXPECT().GetByEmail(gomock.Any(), "eve@example.com").Return(nil, nil)
		m.hash.EXPECT().Hash("pass123").Return("", errors.New("hash error"))

		_, err := svc.Register(ctx, "eve@example.com", "eve", "pass123")
		assert.EqualError(t, err, "hash error")
	})

	t.Run("writer error aborts", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.reader.EXPECT().GetByEmail(gomock.Any(), "carol@example.com").Return(nil, nil)
		m.hash.EXPECT().Hash("pass123").Return("digest", nil)
		m.writer.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("save error"))

		_, err := svc.Register(ctx, "carol@example.com", "carol", "pass123")
		assert.EqualError(t, err, "save error")
	})

	t.Run("token error aborts after insert", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.reader.EXPECT().GetByEmail(gomock.Any(), "dan@example.com").Return(nil, nil)
		m.hash.EXPECT().Hash("pass123").Return("digest", nil)
		m.writer.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		m.cache.EXPECT().Delete(gomock.Any(), "dan@example.com").Return(nil)
		m.jwt.EXPECT().Generate(gomock.Any(), gomock.Any(), "dan@example.com").Return("", errors.New("jwt error"))

		_, err := svc.Register(ctx, "dan@example.com", "dan", "pass123")
		assert.EqualError(t, err, "jwt error")
	})

	t.Run("kafka failure does not fail registration", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.reader.EXPECT().GetByEmail(gomock.Any(), "fay@example.com").Return(nil, nil)
		m.hash.EXPECT().Hash("pass123").Return("digest", nil)
		m.writer.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		m.cache.EXPECT().Delete(gomock.Any(), "fay@example.com").Return(nil)
		m.jwt.EXPECT().Generate(gomock.Any(), gomock.Any(), "fay@example.com").Return("token123", nil)
		m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		token, err := svc.Register(ctx, "fay@example.com", "fay", "pass123")
		assert.NoError(t, err)
		assert.Equal(t, "token123", token)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	storedUser := &models.UserDB{
		UserID:       userID,
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: "digest",
		CreatedOn:    time.Now().UTC(),
	}

	t.Run("successful login on cache miss", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.cache.EXPECT().Get(gomock.Any(), "alice@example.com").Return(nil, nil)
		m.reader.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(storedUser, nil)
		m.cache.EXPECT().Set(gomock.Any(), storedUser).Return(nil)
		m.hash.EXPECT().Compare("digest", "secret").Return(nil)
		m.jwt.EXPECT().Generate(gomock.Any(), userID, "alice@example.com").Return("token123", nil)

		token, err := svc.Login(ctx, "Alice@example.com", "secret")
		assert.NoError(t, err)
		assert.Equal(t, "token123", token)
	})

	t.Run("successful login on cache hit skips database", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.cache.EXPECT().Get(gomock.Any(), "alice@example.com").Return(storedUser, nil)
		m.hash.EXPECT().Compare("digest", "secret").Return(nil)
		m.jwt.EXPECT().Generate(gomock.Any(), userID, "alice@example.com").Return("token123", nil)

		token, err := svc.Login(ctx, "alice@example.com", "secret")
		assert.NoError(t, err)
		assert.Equal(t, "token123", token)
	})

	t.Run("validation failure makes no external calls", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Login(ctx, "alice@example.com", "")

		var vErr *validation.Error
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.cache.EXPECT().Get(gomock.Any(), "ghost@example.com").Return(nil, nil)
		m.reader.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

		_, err := svc.Login(ctx, "ghost@example.com", "secret")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("wrong password yields the same error as unknown email", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.cache.EXPECT().Get(gomock.Any(), "alice@example.com").Return(nil, nil)
		m.reader.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(storedUser, nil)
		m.cache.EXPECT().Set(gomock.Any(), storedUser).Return(nil)
		m.hash.EXPECT().Compare("digest", "wrongpass").Return(hasher.ErrPasswordMismatch)

		_, err := svc.Login(ctx, "alice@example.com", "wrongpass")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("malformed digest is an internal error", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.cache.EXPECT().Get(gomock.Any(), "alice@example.com").Return(nil, nil)
		m.reader.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(storedUser, nil)
		m.cache.EXPECT().Set(gomock.Any(), storedUser).Return(nil)
		m.hash.EXPECT().Compare("digest", "secret").Return(errors.New("compare password: bad digest"))

		_, err := svc.Login(ctx, "alice@example.com", "secret")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("reader error aborts", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.cache.EXPECT().Get(gomock.Any(), "alice@example.com").Return(nil, nil)
		m.reader.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(nil, errors.New("db error"))

		_, err := svc.Login(ctx, "alice@example.com", "secret")
		assert.EqualError(t, err, "db error")
	})

	t.Run("token error aborts", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.cache.EXPECT().Get(gomock.Any(), "alice@example.com").Return(storedUser, nil)
		m.hash.EXPECT().Compare("digest", "secret").Return(nil)
		m.jwt.EXPECT().Generate(gomock.Any(), userID, "alice@example.com").Return("", errors.New("jwt error"))

		_, err := svc.Login(ctx, "alice@example.com", "secret")
		assert.EqualError(t, err, "jwt error")
	})
}

func TestAuthService_Decode(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("successful decode", func(t *testing.T) {
		svc, m := newAuthService(t)

		want := &jwt.Claims{
			UserID: userID,
			Email:  "alice@example.com",
			RegisteredClaims: jwtlib.RegisteredClaims{
				IssuedAt:  jwtlib.NewNumericDate(time.Now()),
				ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		m.jwt.EXPECT().GetClaims(gomock.Any(), "some.jwt.token").Return(want, nil)

		claims, err := svc.Decode(ctx, "some.jwt.token")
		assert.NoError(t, err)
		assert.Equal(t, want, claims)
	})

	t.Run("missing token fails validation", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Decode(ctx, "")

		var vErr *validation.Error
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("verification failure maps to ErrInvalidToken", func(t *testing.T) {
		svc, m := newAuthService(t)

		m.jwt.EXPECT().GetClaims(gomock.Any(), "bad.token").Return(nil, jwt.ErrInvalidToken)

		claims, err := svc.Decode(ctx, "bad.token")
		assert.ErrorIs(t, err, services.ErrInvalidToken)
		assert.Nil(t, claims)
	})
}
