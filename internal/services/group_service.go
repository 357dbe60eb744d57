package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Gopher0727/GroupChat/internal/models"
	"github.com/Gopher0727/GroupChat/internal/repositories"
	"github.com/Gopher0727/GroupChat/internal/utils"
	logger "github.com/Gopher0727/GroupChat/middleware/log"
)

// GroupService 群组生命周期：创建、列表、加入、移除成员、删除
type GroupService struct {
	groups  GroupRepository
	members MemberRepository
	auth    *MembershipService
	log     *logger.Logger
}

// NewGroupService 创建群组服务实例
func NewGroupService(groups GroupRepository, members MemberRepository, auth *MembershipService, log *logger.Logger) *GroupService {
	return &GroupService{
		groups:  groups,
		members: members,
		auth:    auth,
		log:     log.Named("services.group"),
	}
}

// JoinResult 加入群组的结果，重复加入不是错误
type JoinResult struct {
	AlreadyMember bool
}

// Create 创建群组，创建者自动成为成员
// 群名先去空白并转义，再做唯一性检查
func (s *GroupService) Create(ctx context.Context, name, ownerID string) (*GroupDTO, error) {
	if utils.IsBlank(name) {
		return nil, ErrGroupNameRequired
	}
	if ownerID == "" {
		return nil, ErrUserIDRequired
	}
	if err := s.auth.requireUser(ctx, ownerID, ErrUserNotFound); err != nil {
		return nil, err
	}

	name = utils.SanitizeText(name)
	taken, err := s.groups.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check group name: %w", err)
	}
	if taken {
		s.log.DebugContext(ctx, "group name taken", zap.String("name", name))
		return nil, ErrGroupNameTaken
	}

	group := &models.Group{
		Name:      name,
		CreatedBy: ownerID,
	}
	if err := s.groups.CreateWithOwner(ctx, group); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrGroupNameTaken
		}
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.log.InfoContext(ctx, "group created", zap.Uint("group_id", group.ID), zap.String("owner_id", ownerID))
	dto := toGroupDTO(*group)
	return &dto, nil
}

// List 公开的分页群组列表，按 id 升序
func (s *GroupService) List(ctx context.Context, page Page) (*GroupList, error) {
	groups, total, err := s.groups.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	return &GroupList{
		Groups: lo.Map(groups, func(g models.Group, _ int) GroupDTO {
			return toGroupDTO(g)
		}),
		Pagination: GroupPagination{
			TotalGroups: total,
			PageMeta:    page.Meta(total),
		},
	}, nil
}

// Join 加入群组，已是成员时幂等成功
func (s *GroupService) Join(ctx context.Context, groupID uint, userID string) (*JoinResult, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if err := s.auth.requireUser(ctx, userID, ErrUserNotFound); err != nil {
		return nil, err
	}
	if _, err := s.auth.requireGroup(ctx, groupID); err != nil {
		return nil, err
	}

	member, err := s.auth.IsMember(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	if member {
		return &JoinResult{AlreadyMember: true}, nil
	}

	if err := s.members.Add(ctx, groupID, userID); err != nil {
		// 并发加入时联合主键冲突，视为已是成员
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return &JoinResult{AlreadyMember: true}, nil
		}
		return nil, fmt.Errorf("add member: %w", err)
	}

	s.log.InfoContext(ctx, "user joined group", zap.Uint("group_id", groupID), zap.String("user_id", userID))
	return &JoinResult{}, nil
}

// RemoveMember 群主将成员移出群组，群主本人不能被移除
func (s *GroupService) RemoveMember(ctx context.Context, groupID uint, targetID, ownerID string) error {
	if targetID == "" {
		return ErrRemoveIDRequired
	}
	if ownerID == "" {
		return ErrOwnerIDRequired
	}
	if err := s.auth.requireUser(ctx, ownerID, ErrOwnerNotFound); err != nil {
		return err
	}
	if err := s.auth.requireUser(ctx, targetID, ErrTargetUserNotFound); err != nil {
		return err
	}

	group, err := s.auth.requireGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !Owns(group, ownerID) {
		s.log.DebugContext(ctx, "remove rejected, requester is not owner",
			zap.Uint("group_id", groupID), zap.String("requester_id", ownerID))
		return ErrNotOwnerRemove
	}

	member, err := s.auth.IsMember(ctx, targetID, groupID)
	if err != nil {
		return err
	}
	if !member {
		return ErrTargetNotMember
	}
	if Owns(group, targetID) {
		return ErrCannotRemoveOwner
	}

	removed, err := s.members.Remove(ctx, groupID, targetID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if !removed {
		// 检查之后被并发移除
		s.log.WarnContext(ctx, "membership vanished before delete", zap.Uint("group_id", groupID), zap.String("user_id", targetID))
		return ErrMemberRemoveFailed
	}

	s.log.InfoContext(ctx, "member removed", zap.Uint("group_id", groupID), zap.String("user_id", targetID))
	return nil
}

// Delete 群主删除群组，消息、成员关系、群组在同一事务中删除
func (s *GroupService) Delete(ctx context.Context, groupID uint, userID string) error {
	if userID == "" {
		return ErrUserIDRequired
	}

	group, err := s.auth.requireGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !Owns(group, userID) {
		s.log.DebugContext(ctx, "delete rejected, requester is not owner",
			zap.Uint("group_id", groupID), zap.String("requester_id", userID))
		return ErrNotOwnerDelete
	}

	if err := s.groups.DeleteCascade(ctx, groupID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			s.log.WarnContext(ctx, "group vanished before delete", zap.Uint("group_id", groupID))
			return ErrGroupDeleteFailed
		}
		return fmt.Errorf("delete group: %w", err)
	}

	s.log.InfoContext(ctx, "group deleted", zap.Uint("group_id", groupID))
	return nil
}
