package models

// All 返回需要自动迁移的模型，顺序即依赖顺序
func All() []any {
	return []any{
		&User{},
		&Group{},
		&GroupMember{},
		&Message{},
	}
}
