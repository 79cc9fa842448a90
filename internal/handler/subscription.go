package handler

import (
	"ViewTube/internal/dto"
	"ViewTube/internal/service"
	"ViewTube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler interface {
	Subscribe(c *gin.Context)
	Unsubscribe(c *gin.Context)
	GetSubscriptions(c *gin.Context)
}

type subscriptionHandler struct {
	SubscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) SubscriptionHandler {
	return &subscriptionHandler{SubscriptionService: subscriptionService}
}

// 订阅频道：1、从URL取channel_id 2、从认证Context取订阅者 3、执行订阅
// 返回频道资料（带最新订阅数）和isSubscribed
func (h *subscriptionHandler) Subscribe(c *gin.Context) {
	channelID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	subscriberID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	logCtx := logger.Log.WithField("subscriber_id", subscriberID).WithField("channel_id", channelID)

	channel, isSubscribed, err := h.SubscriptionService.Subscribe(c.Request.Context(), subscriberID, channelID)
	if err != nil {
		logCtx.WithError(err).Error("订阅失败")
		respondError(c, err)
		return
	}
	logCtx.Info("订阅成功")

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserResponse(channel, isSubscribed)})
}

// 取消订阅，Subscribe的镜像
func (h *subscriptionHandler) Unsubscribe(c *gin.Context) {
	channelID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	subscriberID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	logCtx := logger.Log.WithField("subscriber_id", subscriberID).WithField("channel_id", channelID)

	channel, isSubscribed, err := h.SubscriptionService.Unsubscribe(c.Request.Context(), subscriberID, channelID)
	if err != nil {
		logCtx.WithError(err).Error("取消订阅失败")
		respondError(c, err)
		return
	}
	logCtx.Info("取消订阅成功")

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserResponse(channel, isSubscribed)})
}

// 获取某用户订阅的频道列表
func (h *subscriptionHandler) GetSubscriptions(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	channels, err := h.SubscriptionService.ListSubscriptions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.UserInfo, 0, len(channels))
	for i := range channels {
		response = append(response, dto.ToUserInfo(&channels[i]))
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": response})
}
