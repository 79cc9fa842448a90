package service

import (
	"ViewTube/internal/apperr"
	"ViewTube/internal/counter"
	"ViewTube/internal/data"
	"ViewTube/internal/model"
	"ViewTube/internal/repository"
	"ViewTube/pkg/logger"
	"context"
)

type CommentService interface {
	// Create 创建评论并重算视频的评论数
	Create(ctx context.Context, userID, videoID uint64, content string) (*model.Comment, error)
	List(ctx context.Context, videoID uint64, pageNum, pageSize int) ([]model.Comment, int64, error)
	// Delete 只有评论作者能删，删除后重算评论数
	Delete(ctx context.Context, userID, videoID, commentID uint64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	uow         data.UnitOfWork
	publisher   EventPublisher
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository, uow data.UnitOfWork, publisher EventPublisher) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		uow:         uow,
		publisher:   publisher,
	}
}

// Create 创建评论：1、确认视频存在 2、事务内插入评论并重算评论数
// 3、带作者信息把评论查回来返回
func (s *commentService) Create(ctx context.Context, userID, videoID uint64, content string) (*model.Comment, error) {
	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		return nil, apperr.FromStorage(err, "视频不存在", "")
	}

	newComment := &model.Comment{
		UserID:  userID,
		VideoID: videoID,
		Content: content,
	}
	err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		if err := repos.CommentRepo.Create(ctx, newComment); err != nil {
			return err
		}
		_, err := counter.RecomputeCommentCount(ctx, repos.VideoRepo, repos.CommentRepo, videoID)
		return err
	})
	if err != nil {
		return nil, apperr.Internal("评论失败", err)
	}

	if err := s.publisher.PublishEngagement(EngagementMessage{
		UserID:  userID,
		VideoID: videoID,
		Action:  ActionComment,
	}); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("互动事件发送失败，缓存将等待过期")
	}

	// 创建成功后带着作者信息再查一次
	created, err := s.commentRepo.FindByID(ctx, newComment.ID)
	if err != nil {
		return nil, apperr.Internal("评论失败", err)
	}
	return created, nil
}

func (s *commentService) List(ctx context.Context, videoID uint64, pageNum, pageSize int) ([]model.Comment, int64, error) {
	offset := (pageNum - 1) * pageSize
	comments, err := s.commentRepo.ListByVideo(ctx, videoID, offset, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal("获取评论列表失败", err)
	}
	total, err := s.commentRepo.CountByVideo(ctx, videoID)
	if err != nil {
		return nil, 0, apperr.Internal("获取评论列表失败", err)
	}
	return comments, total, nil
}

// Delete 删除评论：1、校验视频和评论都存在且对应 2、校验作者身份
// 3、事务内删除并重算评论数。任何校验失败都不产生状态变化。
func (s *commentService) Delete(ctx context.Context, userID, videoID, commentID uint64) error {
	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		return apperr.FromStorage(err, "视频不存在", "")
	}
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return apperr.FromStorage(err, "评论不存在", "")
	}
	if comment.VideoID != videoID {
		return apperr.NotFound("评论不存在")
	}
	if comment.UserID != userID {
		return apperr.Forbidden("只能删除自己的评论")
	}

	err = s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		if err := repos.CommentRepo.Delete(ctx, commentID); err != nil {
			return err
		}
		_, err := counter.RecomputeCommentCount(ctx, repos.VideoRepo, repos.CommentRepo, videoID)
		return err
	})
	if err != nil {
		return apperr.Internal("删除评论失败", err)
	}

	if err := s.publisher.PublishEngagement(EngagementMessage{
		UserID:  userID,
		VideoID: videoID,
		Action:  ActionComment,
	}); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("互动事件发送失败，缓存将等待过期")
	}
	return nil
}
