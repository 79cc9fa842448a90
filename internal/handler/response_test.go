package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ViewTube/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"not_found", apperr.NotFound("视频不存在"), http.StatusNotFound, "视频不存在"},
		{"forbidden", apperr.Forbidden("只能删除自己的评论"), http.StatusForbidden, "只能删除自己的评论"},
		{"invalid", apperr.Invalid("不能订阅自己的频道"), http.StatusUnprocessableEntity, "不能订阅自己的频道"},
		{"conflict", apperr.Conflict("用户名已存在"), http.StatusUnprocessableEntity, "用户名已存在"},
		{"internal", apperr.Internal("存储操作失败", assert.AnError), http.StatusInternalServerError, "服务器内部错误"},
		{"unclassified", assert.AnError, http.StatusInternalServerError, "服务器内部错误"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tc.err)

			assert.Equal(t, tc.code, w.Code)
			assert.JSONEq(t, `{"error":"`+tc.body+`"}`, w.Body.String())
		})
	}
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query    string
		pageNum  int
		pageSize int
	}{
		{"", 1, 10},
		{"?pageNum=3&pageSize=20", 3, 20},
		{"?pageNum=0&pageSize=0", 1, 10},
		{"?pageNum=abc&pageSize=xyz", 1, 10},
		{"?pageSize=1000", 1, 10}, // 超过上限回退默认值
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/videos"+tc.query, nil)

		pageNum, pageSize := parsePagination(c)
		assert.Equal(t, tc.pageNum, pageNum, tc.query)
		assert.Equal(t, tc.pageSize, pageSize, tc.query)
	}
}

func TestCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := currentUserID(c)
	assert.False(t, ok)

	// 认证中间件写入的是JWT解析出的float64
	c.Set("userID", float64(42))
	id, ok := currentUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)
}
