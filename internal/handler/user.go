package handler

import (
	"ViewTube/internal/dto"
	"ViewTube/internal/service"
	"ViewTube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	GetCurrentUser(c *gin.Context)
	Update(c *gin.Context)
	GetUser(c *gin.Context)
}

type userHandler struct {
	UserService         service.UserService
	SubscriptionService service.SubscriptionService
}

func NewUserHandler(userService service.UserService, subscriptionService service.SubscriptionService) UserHandler {
	return &userHandler{
		UserService:         userService,
		SubscriptionService: subscriptionService,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	Username           *string `json:"username"`
	Email              *string `json:"email" binding:"omitempty,email"`
	Password           *string `json:"password" binding:"omitempty,min=6"`
	ChannelDescription *string `json:"channel_description"`
	Avatar             *string `json:"avatar"`
	Cover              *string `json:"cover"`
}

// 注册：1、绑定并校验请求体 2、service层注册 3、返回创建的用户
func (h *userHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("username", req.Username)

	user, err := h.UserService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		logCtx.WithError(err).Error("用户注册失败")
		respondError(c, err)
		return
	}
	logCtx.WithField("user_id", user.ID).Info("用户注册成功")

	resp := dto.ToUserResponse(user, false)
	resp.Email = user.Email
	c.JSON(http.StatusCreated, gin.H{"user": resp})
}

// 登录：1、绑定请求体 2、service层验证并签发token
func (h *userHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	token, user, err := h.UserService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Log.WithField("email", req.Email).WithError(err).Warn("用户登录失败")
		// 模糊的错误提示，更安全
		sendErrorResponse(c, http.StatusUnauthorized, "邮箱或密码错误")
		return
	}
	logger.Log.WithField("user_id", user.ID).Info("用户登录成功")

	resp := dto.ToUserResponse(user, false)
	resp.Email = user.Email
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  resp,
	})
}

// 获取当前登录用户的完整资料
func (h *userHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	user, err := h.UserService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.ToUserResponse(user, false)
	resp.Email = user.Email
	c.JSON(http.StatusOK, gin.H{"user": resp})
}

// 更新当前登录用户的资料，nil字段不改
func (h *userHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	user, err := h.UserService.Update(c.Request.Context(), userID, service.UserUpdate{
		Username:           req.Username,
		Email:              req.Email,
		Password:           req.Password,
		ChannelDescription: req.ChannelDescription,
		Avatar:             req.Avatar,
		Cover:              req.Cover,
	})
	if err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).Error("更新用户资料失败")
		respondError(c, err)
		return
	}

	resp := dto.ToUserResponse(user, false)
	resp.Email = user.Email
	c.JSON(http.StatusOK, gin.H{"user": resp})
}

// 获取用户（频道）资料，登录访问时附带isSubscribed标记
func (h *userHandler) GetUser(c *gin.Context) {
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	user, err := h.UserService.GetByID(c.Request.Context(), targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	isSubscribed := false
	if viewerID, ok := currentUserID(c); ok && viewerID != targetID {
		isSubscribed, err = h.SubscriptionService.IsSubscribed(c.Request.Context(), viewerID, targetID)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserResponse(user, isSubscribed)})
}
