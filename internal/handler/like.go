package handler

import (
	"ViewTube/internal/dto"
	"ViewTube/internal/service"
	"ViewTube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LikeHandler interface {
	LikeVideo(c *gin.Context)
	DislikeVideo(c *gin.Context)
	GetLikedVideos(c *gin.Context)
}

type likeHandler struct {
	LikeService service.LikeService
}

func NewLikeHandler(likeService service.LikeService) LikeHandler {
	return &likeHandler{LikeService: likeService}
}

// 点赞开关：1、从URL取video_id 2、从认证Context取userID 3、执行切换
// 响应带切换后的计数和isLiked（再按一次会回到中立，isLiked=false）
func (h *likeHandler) LikeVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)

	video, isLiked, err := h.LikeService.Like(c.Request.Context(), userID, videoID)
	if err != nil {
		logCtx.WithError(err).Error("点赞失败")
		respondError(c, err)
		return
	}
	logCtx.WithField("is_liked", isLiked).Info("点赞切换成功")

	resp := dto.ToVideoResponse(video)
	resp.IsLiked = isLiked
	c.JSON(http.StatusOK, gin.H{"video": resp})
}

// 点踩开关，LikeVideo的镜像
func (h *likeHandler) DislikeVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)

	video, isDisliked, err := h.LikeService.Dislike(c.Request.Context(), userID, videoID)
	if err != nil {
		logCtx.WithError(err).Error("点踩失败")
		respondError(c, err)
		return
	}
	logCtx.WithField("is_disliked", isDisliked).Info("点踩切换成功")

	resp := dto.ToVideoResponse(video)
	resp.IsDisliked = isDisliked
	c.JSON(http.StatusOK, gin.H{"video": resp})
}

// 获取当前用户点过赞的视频列表
func (h *likeHandler) GetLikedVideos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	pageNum, pageSize := parsePagination(c)

	videos, total, err := h.LikeService.ListLikedVideos(c.Request.Context(), userID, pageNum, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"videos":      dto.ToVideoResponses(videos),
		"videosCount": total,
	})
}
