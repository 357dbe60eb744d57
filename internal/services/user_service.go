package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gopher0727/GroupChat/internal/models"
	"github.com/Gopher0727/GroupChat/internal/repositories"
	"github.com/Gopher0727/GroupChat/internal/utils"
	logger "github.com/Gopher0727/GroupChat/middleware/log"
)

// UserService 用户注册与查询
type UserService struct {
	users UserRepository
	log   *logger.Logger
}

func NewUserService(users UserRepository, log *logger.Logger) *UserService {
	return &UserService{users: users, log: log.Named("services.user")}
}

// Register 注册用户，ID 为随机 UUID v4
// 用户名区分大小写，重复时返回 ErrUsernameTaken
func (s *UserService) Register(ctx context.Context, username string) (*UserDTO, error) {
	if utils.IsBlank(username) {
		return nil, ErrUsernameRequired
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		s.log.DebugContext(ctx, "username taken", zap.String("username", username))
		return nil, ErrUsernameTaken
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Username: username,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// 并发注册同名用户时由唯一索引兜底
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", zap.String("user_id", user.ID))
	return toUserDTO(user), nil
}

// Fetch 根据 ID 获取用户
func (s *UserService) Fetch(ctx context.Context, id string) (*UserDTO, error) {
	if id == "" {
		return nil, ErrUserIDRequired
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return toUserDTO(user), nil
}
