package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-auth-service/internal/hasher"
	"github.com/sbilibin2017/gw-auth-service/internal/jwt"
	"github.com/sbilibin2017/gw-auth-service/internal/logger"
	"github.com/sbilibin2017/gw-auth-service/internal/models"
	"github.com/sbilibin2017/gw-auth-service/internal/repositories"
	"github.com/sbilibin2017/gw-auth-service/internal/validation"
)

// Error variables
var (
	// ErrEmailAlreadyExists is returned when registration finds a user with
	// the same normalized email.
	ErrEmailAlreadyExists = errors.New("user with this email already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong password
	// so the login flow never reveals whether an account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken covers forged, malformed, and expired tokens alike.
	ErrInvalidToken = errors.New("invalid token")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user *models.UserDB) error
}

// UserCache defines the optional read-through cache consulted on login.
type UserCache interface {
	Get(ctx context.Context, email string) (*models.UserDB, error)
	Set(ctx context.Context, user *models.UserDB) error
	Delete(ctx context.Context, email string) error
}

// PasswordHasher defines one-way password hashing and verification.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(digest, password string) error
}

// TokenService defines issuing and decoding of signed tokens.
type TokenService interface {
	Generate(ctx context.Context, userID uuid.UUID, email string) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuthService handles user creation, login, and token decoding.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	cache       UserCache
	hash        PasswordHasher
	jwt         TokenService
	kafkaWriter KafkaWriter
}

// NewAuthService creates a new AuthService instance. The cache and Kafka
// writer are optional; nil disables them.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	cache UserCache,
	hash PasswordHasher,
	jwt TokenService,
	kafkaWriter KafkaWriter,
) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		cache:       cache,
		hash:        hash,
		jwt:         jwt,
		kafkaWriter: kafkaWriter,
	}
}

// normalizeEmail lowercases an email before any comparison, lookup, or storage.
func normalizeEmail(email string) string {
	return strings.ToLower(email)
}

// Register creates a new user account and returns a token for it.
//
// The duplicate check and the insert are separate calls; the unique index on
// email backs them up, so a concurrent registration losing the race gets
// ErrEmailAlreadyExists from the insert instead of slipping through.
func (svc *AuthService) Register(ctx context.Context, email, username, password string) (string, error) {
	if err := validation.CreateUser(email, username, password); err != nil {
		logger.Log.Infow("registration rejected", "reason", err)
		return "", err
	}

	email = normalizeEmail(email)

	existing, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "email", email, "err", err)
		return "", err
	}
	if existing != nil {
		logger.Log.Infow("user already exists", "email", email)
		return "", ErrEmailAlreadyExists
	}

	passwordHash, err := svc.hash.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return "", err
	}

	user := &models.UserDB{
		UserID:       uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedOn:    time.Now().UTC(),
	}

	if err := svc.writer.Save(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailExists) {
			logger.Log.Infow("concurrent registration lost the race", "email", email)
			return "", ErrEmailAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "email", email, "err", err)
		return "", err
	}

	if svc.cache != nil {
		if err := svc.cache.Delete(ctx, email); err != nil {
			logger.Log.Errorw("failed to invalidate user cache", "email", email, "err", err)
		}
	}

	token, err := svc.jwt.Generate(ctx, user.UserID, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "user_id", user.UserID, "err", err)
		return "", err
	}

	svc.publishRegistered(ctx, user)

	return token, nil
}

// Login authenticates a user by email and password and returns a token.
func (svc *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if err := validation.Login(email, password); err != nil {
		logger.Log.Infow("login rejected", "reason", err)
		return "", err
	}

	email = normalizeEmail(email)

	user, err := svc.lookupUser(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "email", email, "err", err)
		return "", err
	}
	if user == nil {
		logger.Log.Infow("login for unknown email", "email", email)
		return "", ErrInvalidCredentials
	}

	if err := svc.hash.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, hasher.ErrPasswordMismatch) {
			logger.Log.Infow("login with wrong password", "email", email)
			return "", ErrInvalidCredentials
		}
		// Malformed digest. Internal failure, not a credential error.
		logger.Log.Errorw("failed to verify password", "email", email, "err", err)
		return "", err
	}

	token, err := svc.jwt.Generate(ctx, user.UserID, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "user_id", user.UserID, "err", err)
		return "", err
	}

	return token, nil
}

// Decode verifies a token and returns the claims embedded in it.
func (svc *AuthService) Decode(ctx context.Context, token string) (*jwt.Claims, error) {
	if err := validation.DecodeToken(token); err != nil {
		logger.Log.Infow("decode rejected", "reason", err)
		return nil, err
	}

	claims, err := svc.jwt.GetClaims(ctx, token)
	if err != nil {
		logger.Log.Infow("token failed verification", "err", err)
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// lookupUser reads through the cache when one is configured. Cache failures
// degrade to a database lookup.
func (svc *AuthService) lookupUser(ctx context.Context, email string) (*models.UserDB, error) {
	if svc.cache != nil {
		cached, err := svc.cache.Get(ctx, email)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user != nil && svc.cache != nil {
		if err := svc.cache.Set(ctx, user); err != nil {
			logger.Log.Errorw("failed to cache user", "email", email, "err", err)
		}
	}

	return user, nil
}

// publishRegistered publishes a user-registered event to Kafka, best-effort.
func (svc *AuthService) publishRegistered(ctx context.Context, user *models.UserDB) {
	if svc.kafkaWriter == nil {
		return
	}

	event := models.UserRegisteredEvent{
		UserID:    user.UserID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedOn: user.CreatedOn,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal registration event", "user_id", user.UserID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(user.UserID.String()),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish registration event", "user_id", user.UserID, "error", err)
	} else {
		logger.Log.Infow("registration event published", "user_id", user.UserID)
	}
}
