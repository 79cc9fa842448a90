// Package counter 维护派生计数：每次写入关系记录后，用一次权威的COUNT
// 查询重算计数并整列写回，而不是原地加减。全量重算能在每次更新时抹掉
// 历史漂移，代价是每次写多一轮读。
package counter

import (
	"ViewTube/internal/model"
	"ViewTube/internal/repository"
	"context"
)

// RecomputeSubscriberCount 重算并写回频道的订阅者数，返回最新值。
// 幂等：没有中间写入时连调两次结果相同。
func RecomputeSubscriberCount(ctx context.Context, users repository.UserRepository, subs repository.SubscriptionRepository, channelID uint64) (uint64, error) {
	count, err := subs.CountByChannel(ctx, channelID)
	if err != nil {
		return 0, err
	}
	if err := users.UpdateSubscribersCount(ctx, channelID, count); err != nil {
		return 0, err
	}
	return uint64(count), nil
}

// RecomputeLikeCounts 重算并写回视频的赞/踩计数，两个计数一次写回
func RecomputeLikeCounts(ctx context.Context, videos repository.VideoRepository, likes repository.LikeRepository, videoID uint64) (uint64, uint64, error) {
	likeCount, err := likes.CountByVideo(ctx, videoID, model.PolarityLike)
	if err != nil {
		return 0, 0, err
	}
	dislikeCount, err := likes.CountByVideo(ctx, videoID, model.PolarityDislike)
	if err != nil {
		return 0, 0, err
	}
	if err := videos.UpdateLikeCounts(ctx, videoID, likeCount, dislikeCount); err != nil {
		return 0, 0, err
	}
	return uint64(likeCount), uint64(dislikeCount), nil
}

// RecomputeCommentCount 重算并写回视频的评论数
func RecomputeCommentCount(ctx context.Context, videos repository.VideoRepository, comments repository.CommentRepository, videoID uint64) (uint64, error) {
	count, err := comments.CountByVideo(ctx, videoID)
	if err != nil {
		return 0, err
	}
	if err := videos.UpdateCommentsCount(ctx, videoID, count); err != nil {
		return 0, err
	}
	return uint64(count), nil
}
