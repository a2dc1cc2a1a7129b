package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-auth-service/internal/logger"
	"github.com/sbilibin2017/gw-auth-service/internal/models"
)

// UserCacheRepository provides a short-lived Redis cache of user records
// keyed by normalized email. Only the login lookup reads it; the duplicate
// check during registration always goes to the database.
type UserCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration for cached user records
}

// NewUserCacheRepository creates a new repository instance with the given TTL.
func NewUserCacheRepository(client *redis.Client, expiration time.Duration) *UserCacheRepository {
	return &UserCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func userKey(email string) string {
	return fmt.Sprintf("user:%s", email)
}

// Get fetches a cached user record. Returns (nil, nil) on a cache miss.
func (r *UserCacheRepository) Get(ctx context.Context, email string) (*models.UserDB, error) {
	key := userKey(email)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logger.Log.Errorw("user cache get failed", "key", key, "error", err)
		return nil, err
	}

	var user models.UserDB
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		logger.Log.Errorw("user cache entry corrupt", "key", key, "error", err)
		return nil, err
	}

	logger.Log.Infow("user cache hit", "key", key)
	return &user, nil
}

// Set caches a user record under its normalized email with expiration.
func (r *UserCacheRepository) Set(ctx context.Context, user *models.UserDB) error {
	key := userKey(user.Email)

	val, err := json.Marshal(user)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, val, r.exp).Err()

	logger.Log.Infow("user cache set", "key", key, "error", err)

	return err
}

// Delete removes a cached user record, e.g. after the email is registered.
func (r *UserCacheRepository) Delete(ctx context.Context, email string) error {
	key := userKey(email)

	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow("user cache delete", "key", key, "error", err)

	return err
}
