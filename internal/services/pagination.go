package services

import "math"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page 归一化后的分页参数
type Page struct {
	Number int
	Limit  int
}

// NewPage page 小于 1 取 1；limit 限制在 [1, MaxPageLimit]
// 缺省 limit 由调用方填入 DefaultPageLimit
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

// Offset 超大页码时饱和到 math.MaxInt，避免乘法溢出后回到第一页
func (p Page) Offset() int {
	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}

// PageMeta 分页信息中与实体无关的部分
type PageMeta struct {
	CurrentPage     int  `json:"current_page"`
	PerPage         int  `json:"per_page"`
	TotalPages      int  `json:"total_pages"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

func (p Page) Meta(total int64) PageMeta {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return PageMeta{
		CurrentPage:     p.Number,
		PerPage:         p.Limit,
		TotalPages:      totalPages,
		HasNextPage:     p.Number < totalPages,
		HasPreviousPage: p.Number > 1,
	}
}

type GroupPagination struct {
	TotalGroups int64 `json:"total_groups"`
	PageMeta
}

type MessagePagination struct {
	TotalMessages int64 `json:"total_messages"`
	PageMeta
}
