package services

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Gopher0727/GroupChat/internal/models"
	"github.com/Gopher0727/GroupChat/internal/utils"
	logger "github.com/Gopher0727/GroupChat/middleware/log"
)

// MessageService 消息服务，只有群成员可以发送和读取
type MessageService struct {
	messages MessageRepository
	auth     *MembershipService
	log      *logger.Logger
}

// NewMessageService 创建消息服务实例
func NewMessageService(messages MessageRepository, auth *MembershipService, log *logger.Logger) *MessageService {
	return &MessageService{
		messages: messages,
		auth:     auth,
		log:      log.Named("services.message"),
	}
}

// Post 发送消息，内容转义后保存
func (s *MessageService) Post(ctx context.Context, groupID uint, userID, content string) (*MessageDTO, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if groupID == 0 {
		return nil, ErrGroupIDRequired
	}
	if utils.IsBlank(content) {
		return nil, ErrContentRequired
	}
	if _, err := s.auth.AssertMember(ctx, userID, groupID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		GroupID: groupID,
		UserID:  userID,
		Content: utils.EscapeHTML(content),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.log.DebugContext(ctx, "message posted", zap.Uint("group_id", groupID), zap.Uint("message_id", msg.ID))
	return toMessageDTO(msg), nil
}

// ListByGroup 最新消息在前的分页列表，附带作者信息
func (s *MessageService) ListByGroup(ctx context.Context, groupID uint, userID string, page Page) (*MessageList, error) {
	if _, err := s.auth.AssertMember(ctx, userID, groupID); err != nil {
		return nil, err
	}

	messages, total, err := s.messages.ListByGroup(ctx, groupID, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return &MessageList{
		GroupID:  groupID,
		Messages: lo.Map(messages, func(m models.Message, _ int) GroupMessageDTO {
			return toGroupMessageDTO(m)
		}),
		Pagination: MessagePagination{
			TotalMessages: total,
			PageMeta:      page.Meta(total),
		},
	}, nil
}
