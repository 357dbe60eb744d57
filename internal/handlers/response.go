package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Gopher0727/GroupChat/internal/services"
	logger "github.com/Gopher0727/GroupChat/middleware/log"
)

const (
	internalErrorMessage  = "Internal server error"
	invalidGroupIDMessage = "Invalid group ID"
)

// statusFor 业务错误类别到 HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError 业务错误原样返回提示；其他错误只记录日志，不向客户端暴露细节
func respondError(c *gin.Context, log *logger.Logger, err error) {
	ctx := c.Request.Context()

	var bizErr *services.Error
	if errors.As(err, &bizErr) {
		status := statusFor(bizErr)
		if status >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "request failed", zap.String("path", c.FullPath()), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": bizErr.Message})
		return
	}

	log.ErrorContext(ctx, "unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
}

// bindBody 空请求体视为所有字段缺省，由业务层给出具体的缺失提示
func bindBody(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

// groupIDParam 解析路径中的群组 ID
func groupIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidGroupIDMessage})
		return 0, false
	}
	return uint(id), true
}

// pageQuery 读取 page 与 limit，非法值按缺省处理
func pageQuery(c *gin.Context) services.Page {
	return services.NewPage(
		queryInt(c, "page", 1),
		queryInt(c, "limit", services.DefaultPageLimit),
	)
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
