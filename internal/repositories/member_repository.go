package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Gopher0727/GroupChat/internal/models"
)

// MemberRepository 成员关系仓储
type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Add 向群组添加成员
// 联合主键冲突 (并发重复加入) 时返回 ErrDuplicateKey
func (r *MemberRepository) Add(ctx context.Context, groupID uint, userID string) error {
	member := models.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	return translate(r.db.WithContext(ctx).Create(&member).Error)
}

// Exists 检查用户是否是群组成员
func (r *MemberRepository) Exists(ctx context.Context, groupID uint, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// Remove 删除一条成员关系，返回是否真的删除了一行
func (r *MemberRepository) Remove(ctx context.Context, groupID uint, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// countByGroup 返回群组成员数
func (r *MemberRepository) countByGroup(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}
