package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Gopher0727/GroupChat/internal/models"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create 保存消息，回填自增 ID 与创建时间
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	return translate(r.db.WithContext(ctx).Create(msg).Error)
}

// ListByGroup 按时间倒序分页获取群消息，同一时间戳按 id 倒序
// 预加载作者信息
func (r *MessageRepository) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.Message, int64, error) {
	total, err := r.CountByGroup(ctx, groupID)
	if err != nil {
		return nil, 0, err
	}
	if int64(offset) >= total {
		return []models.Message{}, total, nil
	}

	var messages []models.Message
	err = r.db.WithContext(ctx).Where("group_id = ?", groupID).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, total, err
}

// CountByGroup 返回群消息总数
func (r *MessageRepository) CountByGroup(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}
