package dto

import (
	"ViewTube/internal/model"
)

// UserInfo 嵌在视频/评论响应里的简化用户信息
type UserInfo struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// UserResponse 用户/频道的完整资料
type UserResponse struct {
	ID                 uint64 `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email,omitempty"`
	ChannelDescription string `json:"channel_description"`
	Avatar             string `json:"avatar"`
	Cover              string `json:"cover"`
	SubscribersCount   uint64 `json:"subscribers_count"`
	IsSubscribed       bool   `json:"is_subscribed"`
}

// ToUserResponse 把DB模型转换为API响应模型，Email只在返回本人资料时填充
func ToUserResponse(user *model.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:                 user.ID,
		Username:           user.Username,
		ChannelDescription: user.ChannelDescription,
		Avatar:             user.Avatar,
		Cover:              user.Cover,
		SubscribersCount:   user.SubscribersCount,
		IsSubscribed:       isSubscribed,
	}
}

func ToUserInfo(user *model.User) UserInfo {
	return UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Avatar:   user.Avatar,
	}
}
