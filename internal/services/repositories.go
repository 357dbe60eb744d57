package services

//go:generate mockgen -source=repositories.go -destination=../mocks/repositories.go -package=mocks

import (
	"context"

	"github.com/Gopher0727/GroupChat/internal/models"
)

// UserRepository 由 repositories.UserRepository 实现
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type GroupRepository interface {
	CreateWithOwner(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]models.Group, int64, error)
	DeleteCascade(ctx context.Context, id uint) error
}

type MemberRepository interface {
	Add(ctx context.Context, groupID uint, userID string) error
	Exists(ctx context.Context, groupID uint, userID string) (bool, error)
	Remove(ctx context.Context, groupID uint, userID string) (bool, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.Message, int64, error)
}
