package service

import (
	"ViewTube/internal/apperr"
	"ViewTube/internal/counter"
	"ViewTube/internal/data"
	"ViewTube/internal/model"
	"ViewTube/internal/repository"
	"ViewTube/pkg/logger"
	"context"
	"errors"

	"gorm.io/gorm"
)

// LikeService 点赞开关：每对(user, video)在{中立, 已赞, 已踩}三态间切换。
// 再按一次同方向即清除（回到中立），按反方向则改写极性。
type LikeService interface {
	// Like 返回带最新计数的视频和切换后的isLiked
	Like(ctx context.Context, userID, videoID uint64) (*model.Video, bool, error)
	// Dislike 返回带最新计数的视频和切换后的isDisliked
	Dislike(ctx context.Context, userID, videoID uint64) (*model.Video, bool, error)
	ListLikedVideos(ctx context.Context, userID uint64, pageNum, pageSize int) ([]model.Video, int64, error)
}

type likeService struct {
	videoRepo repository.VideoRepository
	likeRepo  repository.LikeRepository
	uow       data.UnitOfWork
	publisher EventPublisher
}

func NewLikeService(videoRepo repository.VideoRepository, likeRepo repository.LikeRepository, uow data.UnitOfWork, publisher EventPublisher) LikeService {
	return &likeService{
		videoRepo: videoRepo,
		likeRepo:  likeRepo,
		uow:       uow,
		publisher: publisher,
	}
}

func (s *likeService) Like(ctx context.Context, userID, videoID uint64) (*model.Video, bool, error) {
	return s.toggle(ctx, userID, videoID, model.PolarityLike, ActionLike)
}

func (s *likeService) Dislike(ctx context.Context, userID, videoID uint64) (*model.Video, bool, error) {
	return s.toggle(ctx, userID, videoID, model.PolarityDislike, ActionDislike)
}

// toggle 执行一次极性切换：1、确认视频存在 2、事务内读当前三态并决定迁移
// 3、写关系增量 4、全量重算赞/踩两个计数。Like和Dislike互为镜像，只差极性。
// 事务提交后发互动事件，让消费者刷新该视频的缓存。
func (s *likeService) toggle(ctx context.Context, userID, videoID uint64, polarity int8, action string) (*model.Video, bool, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, false, apperr.FromStorage(err, "视频不存在", "")
	}

	var active bool // 切换后用户是否处于该极性

	err = s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		record, err := repos.LikeRepo.Find(ctx, userID, videoID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		target := model.StateLiked
		if polarity == model.PolarityDislike {
			target = model.StateDisliked
		}

		switch model.StateOf(record) {
		case target:
			// 再按一次即清除，回到中立
			if _, err := repos.LikeRepo.Delete(ctx, userID, videoID); err != nil {
				return err
			}
			active = false
		default:
			// 中立 -> 插入；反方向 -> 改写极性。Upsert对两种情况同样适用
			if err := repos.LikeRepo.Upsert(ctx, userID, videoID, polarity); err != nil {
				return err
			}
			active = true
		}

		likes, dislikes, err := counter.RecomputeLikeCounts(ctx, repos.VideoRepo, repos.LikeRepo, videoID)
		if err != nil {
			return err
		}
		video.LikesCount = likes
		video.DislikesCount = dislikes
		return nil
	})
	if err != nil {
		return nil, false, apperr.Internal("操作失败", err)
	}

	// 事件只影响缓存新鲜度，发送失败不影响本次请求的结果
	if err := s.publisher.PublishEngagement(EngagementMessage{
		UserID:  userID,
		VideoID: videoID,
		Action:  action,
	}); err != nil {
		logger.Log.WithError(err).
			WithField("video_id", videoID).
			Warn("互动事件发送失败，缓存将等待过期")
	}

	return video, active, nil
}

// ListLikedVideos 用户点过赞的视频列表，按点赞时间倒序分页
func (s *likeService) ListLikedVideos(ctx context.Context, userID uint64, pageNum, pageSize int) ([]model.Video, int64, error) {
	offset := (pageNum - 1) * pageSize
	ids, err := s.likeRepo.LikedVideoIDs(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal("获取点赞列表失败", err)
	}
	total, err := s.likeRepo.CountLikedByUser(ctx, userID)
	if err != nil {
		return nil, 0, apperr.Internal("获取点赞列表失败", err)
	}
	videos, err := s.videoRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, apperr.Internal("获取点赞列表失败", err)
	}
	return videos, total, nil
}
