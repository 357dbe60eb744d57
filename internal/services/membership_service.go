package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Gopher0727/GroupChat/internal/models"
	"github.com/Gopher0727/GroupChat/internal/repositories"
	logger "github.com/Gopher0727/GroupChat/middleware/log"
)

// MembershipService 成员与所有权判定
// 每次调用都直接查询存储，不做缓存
type MembershipService struct {
	users   UserRepository
	groups  GroupRepository
	members MemberRepository
	log     *logger.Logger
}

func NewMembershipService(users UserRepository, groups GroupRepository, members MemberRepository, log *logger.Logger) *MembershipService {
	return &MembershipService{
		users:   users,
		groups:  groups,
		members: members,
		log:     log.Named("services.membership"),
	}
}

// Owns 判断 userID 是否为群主
func Owns(group *models.Group, userID string) bool {
	return group != nil && userID != "" && group.CreatedBy == userID
}

// IsMember 判断用户是否为群成员
func (s *MembershipService) IsMember(ctx context.Context, userID string, groupID uint) (bool, error) {
	ok, err := s.members.Exists(ctx, groupID, userID)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return ok, nil
}

// IsOwner 判断用户是否为群主，群组不存在时返回 false
func (s *MembershipService) IsOwner(ctx context.Context, userID string, groupID uint) (bool, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get group: %w", err)
	}
	return Owns(group, userID), nil
}

// AssertMember 依次检查用户存在、群组存在、用户是成员
// 通过时返回群组，供调用方继续使用
func (s *MembershipService) AssertMember(ctx context.Context, userID string, groupID uint) (*models.Group, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if err := s.requireUser(ctx, userID, ErrUserNotFound); err != nil {
		return nil, err
	}

	group, err := s.requireGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	ok, err := s.IsMember(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.DebugContext(ctx, "not a member", zap.String("user_id", userID), zap.Uint("group_id", groupID))
		return nil, ErrNotMember
	}
	return group, nil
}

// requireUser 用户不存在时返回 notFound，不同操作的提示文案不同
func (s *MembershipService) requireUser(ctx context.Context, userID string, notFound *Error) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !ok {
		s.log.DebugContext(ctx, "user not found", zap.String("user_id", userID))
		return notFound
	}
	return nil
}

func (s *MembershipService) requireGroup(ctx context.Context, groupID uint) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			s.log.DebugContext(ctx, "group not found", zap.Uint("group_id", groupID))
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return group, nil
}
