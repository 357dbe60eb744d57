package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Gopher0727/GroupChat/internal/models"
)

// GroupRepository 群组仓储
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository 创建群组仓储实例
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateWithOwner 创建群组并将创建者加入成员表
// 两次写入在同一事务中，任一失败整体回滚
func (r *GroupRepository) CreateWithOwner(ctx context.Context, group *models.Group) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		member := models.GroupMember{
			GroupID:  group.ID,
			UserID:   group.CreatedBy,
			JoinedAt: group.CreatedAt,
		}
		return tx.Create(&member).Error
	})
	return translate(err)
}

// GetByID 根据ID获取群组
func (r *GroupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

// ExistsByName 检查群名是否已被占用 (区分大小写)
func (r *GroupRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Group{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// List 按 id 升序分页列出群组，同时返回总数
func (r *GroupRepository) List(ctx context.Context, limit, offset int) ([]models.Group, int64, error) {
	var (
		groups []models.Group
		total  int64
	)

	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Group{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if int64(offset) >= total {
		return []models.Group{}, total, nil
	}

	err := db.Order("id ASC").Limit(limit).Offset(offset).Find(&groups).Error
	return groups, total, err
}

// DeleteCascade 按依赖顺序删除群消息、成员关系、群组本身
// 群组行不存在时返回 ErrRecordNotFound，事务整体回滚
func (r *GroupRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Group{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
	return translate(err)
}
