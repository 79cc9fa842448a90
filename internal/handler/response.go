package handler

import (
	"ViewTube/internal/apperr"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 标准的API错误响应结构
type ErrorResponse struct {
	Error string `json:"error"`
}

func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// respondError 按业务错误分类映射HTTP状态码，内部错误不泄露细节
func respondError(c *gin.Context, err error) {
	var code int
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		code = http.StatusNotFound
	case apperr.KindForbidden:
		code = http.StatusForbidden
	case apperr.KindInvalid, apperr.KindConflict:
		code = http.StatusUnprocessableEntity
	default:
		code = http.StatusInternalServerError
	}
	sendErrorResponse(c, code, apperr.Message(err))
}

// currentUserID 从认证中间件写入的Context里取用户ID。
// JWT数字claims经json解析后是float64，这里统一断言并转成uint64。
func currentUserID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return uint64(f), true
}

// parseIDParam 解析URL路径里的数字参数
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		sendErrorResponse(c, http.StatusBadRequest, "无效的"+name)
		return 0, false
	}
	return id, true
}

// parsePagination 解析pageNum/pageSize查询参数并限制页大小
func parsePagination(c *gin.Context) (int, int) {
	pageNum, err := strconv.Atoi(c.DefaultQuery("pageNum", "1"))
	if err != nil || pageNum < 1 {
		pageNum = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return pageNum, pageSize
}
