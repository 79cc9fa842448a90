package service

import (
	"ViewTube/internal/apperr"
	"ViewTube/internal/data"
	"ViewTube/internal/model"
	"ViewTube/internal/repository"
	"ViewTube/pkg/logger"
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// VideoFlags 观看者与视频的关系标记，匿名访问时全为false
type VideoFlags struct {
	IsLiked           bool
	IsDisliked        bool
	OwnerIsSubscribed bool
}

// VideoCreate 创建视频的入参
type VideoCreate struct {
	Title       string
	Description string
	VodVideoID  string
	Cover       string
}

// VideoUpdate 视频的部分更新，nil字段表示不改
type VideoUpdate struct {
	Title       *string
	Description *string
	VodVideoID  *string
	Cover       *string
}

type VideoService interface {
	Create(ctx context.Context, userID uint64, req VideoCreate) (*model.Video, error)
	// GetByID viewerID为0表示匿名访问，flags全为false
	GetByID(ctx context.Context, videoID, viewerID uint64) (*model.Video, *VideoFlags, error)
	List(ctx context.Context, pageNum, pageSize int) ([]model.Video, int64, error)
	ListByUser(ctx context.Context, userID uint64, pageNum, pageSize int) ([]model.Video, int64, error)
	// Feed 观看者订阅的频道发布的视频
	Feed(ctx context.Context, userID uint64, pageNum, pageSize int) ([]model.Video, int64, error)
	// Update 只有视频作者能改
	Update(ctx context.Context, userID, videoID uint64, updates VideoUpdate) (*model.Video, error)
	// Delete 只有视频作者能删，连带删除评论和点赞记录
	Delete(ctx context.Context, userID, videoID uint64) error
}

type videoService struct {
	sf singleflight.Group

	videoRepo repository.VideoRepository
	likeRepo  repository.LikeRepository
	subRepo   repository.SubscriptionRepository
	uow       data.UnitOfWork
}

func NewVideoService(videoRepo repository.VideoRepository, likeRepo repository.LikeRepository, subRepo repository.SubscriptionRepository, uow data.UnitOfWork) VideoService {
	return &videoService{
		videoRepo: videoRepo,
		likeRepo:  likeRepo,
		subRepo:   subRepo,
		uow:       uow,
	}
}

func (s *videoService) Create(ctx context.Context, userID uint64, req VideoCreate) (*model.Video, error) {
	newVideo := &model.Video{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		VodVideoID:  req.VodVideoID,
		Cover:       req.Cover,
	}
	if err := s.videoRepo.Create(ctx, newVideo); err != nil {
		return nil, apperr.Internal("创建视频失败", err)
	}
	return newVideo, nil
}

// GetByID 查视频详情：1、先读Redis缓存 2、未命中走SingleFlight查库并回填缓存
// 3、登录用户再补三个关系标记。标记是点查，不走缓存。
func (s *videoService) GetByID(ctx context.Context, videoID, viewerID uint64) (*model.Video, *VideoFlags, error) {
	video, err := s.videoRepo.GetVideoCache(ctx, videoID)
	if err != nil {
		// Redis本身出错只记日志，降级走数据库
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("读取视频缓存失败")
	}
	if video == nil {
		// 缓存未命中，SingleFlight合并同一视频的并发回源
		key := fmt.Sprintf("get_video_%d", videoID)
		result, err, _ := s.sf.Do(key, func() (interface{}, error) {
			dbVideo, dbErr := s.videoRepo.FindByID(ctx, videoID)
			if dbErr != nil {
				return nil, dbErr
			}
			_ = s.videoRepo.SetVideoCache(ctx, dbVideo)
			return dbVideo, nil
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, apperr.NotFound("视频不存在")
			}
			return nil, nil, apperr.Internal("获取视频失败", err)
		}
		video = result.(*model.Video)
	}

	flags := &VideoFlags{}
	if viewerID != 0 {
		state, err := s.likeState(ctx, viewerID, videoID)
		if err != nil {
			return nil, nil, err
		}
		flags.IsLiked = state == model.StateLiked
		flags.IsDisliked = state == model.StateDisliked

		if viewerID != video.UserID {
			subscribed, err := s.subRepo.Exists(ctx, viewerID, video.UserID)
			if err != nil {
				return nil, nil, apperr.Internal("获取视频失败", err)
			}
			flags.OwnerIsSubscribed = subscribed
		}
	}
	return video, flags, nil
}

func (s *videoService) likeState(ctx context.Context, userID, videoID uint64) (model.LikeState, error) {
	record, err := s.likeRepo.Find(ctx, userID, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.StateNeutral, nil
		}
		return model.StateNeutral, apperr.Internal("获取视频失败", err)
	}
	return model.StateOf(record), nil
}

func (s *videoService) List(ctx context.Context, pageNum, pageSize int) ([]model.Video, int64, error) {
	offset := (pageNum - 1) * pageSize
	videos, err := s.videoRepo.FindLatest(ctx, offset, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal("获取视频列表失败", err)
	}
	total, err := s.videoRepo.CountAll(ctx)
	if err != nil {
		return nil, 0, apperr.Internal("获取视频列表失败", err)
	}
	return videos, total, nil
}

func (s *videoService) ListByUser(ctx context.Context, userID uint64, pageNum, pageSize int) ([]model.Video, int64, error) {
	offset := (pageNum - 1) * pageSize
	videos, err := s.videoRepo.FindByUser(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal("获取视频列表失败", err)
	}
	total, err := s.videoRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, apperr.Internal("获取视频列表失败", err)
	}
	return videos, total, nil
}

func (s *videoService) Feed(ctx context.Context, userID uint64, pageNum, pageSize int) ([]model.Video, int64, error) {
	channelIDs, err := s.subRepo.ChannelIDsByUser(ctx, userID)
	if err != nil {
		return nil, 0, apperr.Internal("获取关注动态失败", err)
	}
	offset := (pageNum - 1) * pageSize
	videos, err := s.videoRepo.FindByChannels(ctx, channelIDs, offset, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal("获取关注动态失败", err)
	}
	total, err := s.videoRepo.CountByChannels(ctx, channelIDs)
	if err != nil {
		return nil, 0, apperr.Internal("获取关注动态失败", err)
	}
	return videos, total, nil
}

func (s *videoService) Update(ctx context.Context, userID, videoID uint64, updates VideoUpdate) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, apperr.FromStorage(err, "视频不存在", "")
	}
	if video.UserID != userID {
		return nil, apperr.Forbidden("只能修改自己的视频")
	}

	if updates.Title != nil {
		video.Title = *updates.Title
	}
	if updates.Description != nil {
		video.Description = *updates.Description
	}
	if updates.VodVideoID != nil {
		video.VodVideoID = *updates.VodVideoID
	}
	if updates.Cover != nil {
		video.Cover = *updates.Cover
	}

	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, apperr.Internal("更新视频失败", err)
	}
	// 缓存里还是旧数据，直接删掉等下次回源
	if err := s.videoRepo.DeleteVideoCache(ctx, videoID); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("删除视频缓存失败")
	}
	return video, nil
}

// Delete 删除视频：校验所有权后，在一个事务里删掉视频、它的评论和点赞记录
func (s *videoService) Delete(ctx context.Context, userID, videoID uint64) error {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return apperr.FromStorage(err, "视频不存在", "")
	}
	if video.UserID != userID {
		return apperr.Forbidden("只能删除自己的视频")
	}

	err = s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		if err := repos.CommentRepo.DeleteByVideo(ctx, videoID); err != nil {
			return err
		}
		if err := repos.LikeRepo.DeleteByVideo(ctx, videoID); err != nil {
			return err
		}
		return repos.VideoRepo.Delete(ctx, videoID)
	})
	if err != nil {
		return apperr.Internal("删除视频失败", err)
	}

	if err := s.videoRepo.DeleteVideoCache(ctx, videoID); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("删除视频缓存失败")
	}
	return nil
}
