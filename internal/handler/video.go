package handler

import (
	"ViewTube/internal/dto"
	"ViewTube/internal/service"
	"ViewTube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type VideoHandler interface {
	CreateVideo(c *gin.Context)
	GetVideo(c *gin.Context)
	GetVideos(c *gin.Context)
	GetUserVideos(c *gin.Context)
	GetFeedVideos(c *gin.Context)
	UpdateVideo(c *gin.Context)
	DeleteVideo(c *gin.Context)
}

type videoHandler struct {
	VideoService service.VideoService
}

func NewVideoHandler(videoService service.VideoService) VideoHandler {
	return &videoHandler{VideoService: videoService}
}

type CreateVideoRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	VodVideoID  string `json:"vod_video_id" binding:"required"`
	Cover       string `json:"cover"`
}

type UpdateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	VodVideoID  *string `json:"vod_video_id"`
	Cover       *string `json:"cover"`
}

// 创建视频，作者即当前登录用户
func (h *videoHandler) CreateVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	video, err := h.VideoService.Create(c.Request.Context(), userID, service.VideoCreate{
		Title:       req.Title,
		Description: req.Description,
		VodVideoID:  req.VodVideoID,
		Cover:       req.Cover,
	})
	if err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).Error("创建视频失败")
		respondError(c, err)
		return
	}
	logger.Log.WithField("user_id", userID).WithField("video_id", video.ID).Info("创建视频成功")

	c.JSON(http.StatusCreated, gin.H{"video": dto.ToVideoResponse(video)})
}

// 视频详情：匿名可访问，登录用户附带isLiked/isDisliked/作者isSubscribed标记
func (h *videoHandler) GetVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	viewerID, _ := currentUserID(c) // 匿名时为0

	video, flags, err := h.VideoService.GetByID(c.Request.Context(), videoID, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ToVideoResponse(video)
	resp.IsLiked = flags.IsLiked
	resp.IsDisliked = flags.IsDisliked
	resp.User.IsSubscribed = flags.OwnerIsSubscribed
	c.JSON(http.StatusOK, gin.H{"video": resp})
}

// 视频列表，时间倒序分页
func (h *videoHandler) GetVideos(c *gin.Context) {
	pageNum, pageSize := parsePagination(c)
	videos, total, err := h.VideoService.List(c.Request.Context(), pageNum, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"videos":      dto.ToVideoResponses(videos),
		"videosCount": total,
	})
}

// 某用户发布的视频列表
func (h *videoHandler) GetUserVideos(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	pageNum, pageSize := parsePagination(c)
	videos, total, err := h.VideoService.ListByUser(c.Request.Context(), userID, pageNum, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"videos":      dto.ToVideoResponses(videos),
		"videosCount": total,
	})
}

// 订阅feed：当前用户关注的频道发布的视频
func (h *videoHandler) GetFeedVideos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	pageNum, pageSize := parsePagination(c)
	videos, total, err := h.VideoService.Feed(c.Request.Context(), userID, pageNum, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"videos":      dto.ToVideoResponses(videos),
		"videosCount": total,
	})
}

// 更新视频，只有作者能改
func (h *videoHandler) UpdateVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	video, err := h.VideoService.Update(c.Request.Context(), userID, videoID, service.VideoUpdate{
		Title:       req.Title,
		Description: req.Description,
		VodVideoID:  req.VodVideoID,
		Cover:       req.Cover,
	})
	if err != nil {
		logger.Log.WithField("user_id", userID).WithField("video_id", videoID).WithError(err).Error("更新视频失败")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"video": dto.ToVideoResponse(video)})
}

// 删除视频，只有作者能删
func (h *videoHandler) DeleteVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	if err := h.VideoService.Delete(c.Request.Context(), userID, videoID); err != nil {
		logger.Log.WithField("user_id", userID).WithField("video_id", videoID).WithError(err).Error("删除视频失败")
		respondError(c, err)
		return
	}
	logger.Log.WithField("user_id", userID).WithField("video_id", videoID).Info("删除视频成功")

	c.Status(http.StatusNoContent)
}
