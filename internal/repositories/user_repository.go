package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Gopher0727/GroupChat/internal/models"
)

const (
	userCacheKeyPrefix  = "user:info:" // Redis String, 值是 user JSON
	defaultUserCacheTTL = 1 * time.Hour
)

type UserRepository struct {
	db    *gorm.DB
	redis *redis.Client
	ttl   time.Duration
}

// NewUserRepository redis 为 nil 时不使用缓存
func NewUserRepository(db *gorm.DB, redis *redis.Client, ttl time.Duration) *UserRepository {
	if ttl <= 0 {
		ttl = defaultUserCacheTTL
	}
	return &UserRepository{db: db, redis: redis, ttl: ttl}
}

func userCacheKey(id string) string {
	return userCacheKeyPrefix + id
}

// Create 创建用户，用户名重复时返回 ErrDuplicateKey
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// GetByID 根据 ID 获取用户 (带缓存)
// 用户创建后不可修改，所以缓存不需要失效
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if r.redis != nil {
		val, err := r.redis.Get(ctx, userCacheKey(id)).Result()
		if err == nil {
			var user models.User
			if json.Unmarshal([]byte(val), &user) == nil {
				return &user, nil
			}
		}
	}

	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}

	// 回填 Redis，失败不影响结果
	if r.redis != nil {
		if data, err := json.Marshal(&user); err == nil {
			r.redis.Set(ctx, userCacheKey(id), data, r.ttl)
		}
	}
	return &user, nil
}

// Exists 检查用户是否存在
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrRecordNotFound):
		return false, nil
	default:
		return false, err
	}
}

// ExistsByUsername 检查用户名是否存在 (区分大小写)
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}
