package handler

import (
	"ViewTube/internal/dto"
	"ViewTube/internal/service"
	"ViewTube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	CreateComment(c *gin.Context)
	GetComments(c *gin.Context)
	DeleteComment(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{CommentService: commentService}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// 创建评论：评论数在service层事务内重算
func (h *commentHandler) CreateComment(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)

	comment, err := h.CommentService.Create(c.Request.Context(), userID, videoID, req.Content)
	if err != nil {
		logCtx.WithError(err).Error("评论失败")
		respondError(c, err)
		return
	}
	logCtx.WithField("comment_id", comment.ID).Info("评论成功")

	c.JSON(http.StatusCreated, gin.H{"comment": dto.ToCommentResponse(comment)})
}

// 获取视频评论列表，分页
func (h *commentHandler) GetComments(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	pageNum, pageSize := parsePagination(c)

	comments, total, err := h.CommentService.List(c.Request.Context(), videoID, pageNum, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"comments":      dto.ToCommentResponses(comments),
		"commentsCount": total,
	})
}

// 删除评论：只有评论作者能删，删除后评论数在事务内重算
func (h *commentHandler) DeleteComment(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("comment_id", commentID)

	if err := h.CommentService.Delete(c.Request.Context(), userID, videoID, commentID); err != nil {
		logCtx.WithError(err).Error("删除评论失败")
		respondError(c, err)
		return
	}
	logCtx.Info("删除评论成功")

	c.Status(http.StatusNoContent)
}
