package dto

import (
	"ViewTube/internal/model"
	"time"
)

type VideoOwner struct {
	ID               uint64 `json:"id"`
	Username         string `json:"username"`
	Avatar           string `json:"avatar"`
	SubscribersCount uint64 `json:"subscribers_count"`
	IsSubscribed     bool   `json:"is_subscribed"`
}

type VideoResponse struct {
	ID            uint64     `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	VodVideoID    string     `json:"vod_video_id"`
	Cover         string     `json:"cover"`
	LikesCount    uint64     `json:"likes_count"`
	DislikesCount uint64     `json:"dislikes_count"`
	CommentsCount uint64     `json:"comments_count"`
	IsLiked       bool       `json:"is_liked"`
	IsDisliked    bool       `json:"is_disliked"`
	User          VideoOwner `json:"user"`
}

// ToVideoResponse 把DB模型转换为API响应模型，作者信息依赖Preload，
// 没Preload出来就只填ID，保证响应结构稳定
func ToVideoResponse(video *model.Video) VideoResponse {
	resp := VideoResponse{
		ID:            video.ID,
		CreatedAt:     video.CreatedAt,
		Title:         video.Title,
		Description:   video.Description,
		VodVideoID:    video.VodVideoID,
		Cover:         video.Cover,
		LikesCount:    video.LikesCount,
		DislikesCount: video.DislikesCount,
		CommentsCount: video.CommentsCount,
	}
	if video.User.ID != 0 {
		resp.User = VideoOwner{
			ID:               video.User.ID,
			Username:         video.User.Username,
			Avatar:           video.User.Avatar,
			SubscribersCount: video.User.SubscribersCount,
		}
	} else {
		resp.User.ID = video.UserID
	}
	return resp
}

func ToVideoResponses(videos []model.Video) []VideoResponse {
	response := make([]VideoResponse, 0, len(videos))
	for i := range videos {
		response = append(response, ToVideoResponse(&videos[i]))
	}
	return response
}
