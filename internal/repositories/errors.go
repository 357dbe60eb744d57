package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrRecordNotFound 目标行不存在
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicateKey 唯一约束或联合主键冲突
	ErrDuplicateKey = errors.New("duplicate key")
)

// translate 把驱动相关的错误收敛为仓储层哨兵错误，其余错误原样返回
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	}
	// sqlite 方言未实现错误翻译时的兜底
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") {
		return ErrDuplicateKey
	}
	return err
}
