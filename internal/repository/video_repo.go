package repository

import (
	"ViewTube/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	FindByID(ctx context.Context, videoID uint64) (*model.Video, error)
	// FindLatest 按时间倒序的视频列表，预加载作者
	FindLatest(ctx context.Context, offset, limit int) ([]model.Video, error)
	CountAll(ctx context.Context) (int64, error)
	FindByUser(ctx context.Context, userID uint64, offset, limit int) ([]model.Video, error)
	CountByUser(ctx context.Context, userID uint64) (int64, error)
	// FindByChannels 订阅feed：这些频道发布的视频
	FindByChannels(ctx context.Context, channelIDs []uint64, offset, limit int) ([]model.Video, error)
	CountByChannels(ctx context.Context, channelIDs []uint64) (int64, error)
	FindByIDs(ctx context.Context, videoIDs []uint64) ([]model.Video, error)
	Update(ctx context.Context, video *model.Video) error
	Delete(ctx context.Context, videoID uint64) error
	// UpdateLikeCounts 只写两个点赞计数列，由counter包在重算后调用
	UpdateLikeCounts(ctx context.Context, videoID uint64, likes, dislikes int64) error
	UpdateCommentsCount(ctx context.Context, videoID uint64, count int64) error

	GetVideoCache(ctx context.Context, videoID uint64) (*model.Video, error)
	SetVideoCache(ctx context.Context, video *model.Video) error
	DeleteVideoCache(ctx context.Context, videoID uint64) error

	WithTx(tx *gorm.DB) VideoRepository
}

type videoRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewVideoRepository(db *gorm.DB, rdb *redis.Client) VideoRepository {
	return &videoRepository{db: db, rdb: rdb}
}

func (r *videoRepository) WithTx(tx *gorm.DB) VideoRepository {
	return &videoRepository{db: tx, rdb: r.rdb}
}

func (r *videoRepository) Create(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

// FindByID 只查数据库，缓存的读写由service层决定（写路径必须看到权威数据）
func (r *videoRepository) FindByID(ctx context.Context, videoID uint64) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).Preload("User").First(&video, videoID).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) FindLatest(ctx context.Context, offset, limit int) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

func (r *videoRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).Count(&count).Error
	return count, err
}

func (r *videoRepository) FindByUser(ctx context.Context, userID uint64, offset, limit int) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

func (r *videoRepository) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *videoRepository) FindByChannels(ctx context.Context, channelIDs []uint64, offset, limit int) ([]model.Video, error) {
	if len(channelIDs) == 0 {
		return nil, nil
	}
	var videos []model.Video
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN (?)", channelIDs).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

func (r *videoRepository) CountByChannels(ctx context.Context, channelIDs []uint64) (int64, error) {
	if len(channelIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).
		Where("user_id IN (?)", channelIDs).
		Count(&count).Error
	return count, err
}

func (r *videoRepository) FindByIDs(ctx context.Context, videoIDs []uint64) ([]model.Video, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	var videos []model.Video
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id IN (?)", videoIDs).
		Find(&videos).Error
	return videos, err
}

func (r *videoRepository) Update(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Save(video).Error
}

func (r *videoRepository) Delete(ctx context.Context, videoID uint64) error {
	return r.db.WithContext(ctx).Delete(&model.Video{}, videoID).Error
}

func (r *videoRepository) UpdateLikeCounts(ctx context.Context, videoID uint64, likes, dislikes int64) error {
	return r.db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", videoID).
		UpdateColumns(map[string]interface{}{
			"likes_count":    likes,
			"dislikes_count": dislikes,
		}).Error
}

func (r *videoRepository) UpdateCommentsCount(ctx context.Context, videoID uint64, count int64) error {
	return r.db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", videoID).
		UpdateColumn("comments_count", count).Error
}

func (r *videoRepository) keyVideoInfo(videoID uint64) string {
	return fmt.Sprintf("video:info:%d", videoID)
}

// GetVideoCache 从Redis读单个视频：缓存不存在返回(nil, nil)，Redis出错才返回error
func (r *videoRepository) GetVideoCache(ctx context.Context, videoID uint64) (*model.Video, error) {
	if r.rdb == nil {
		return nil, nil
	}
	videoJSON, err := r.rdb.Get(ctx, r.keyVideoInfo(videoID)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var video model.Video
	if err := json.Unmarshal([]byte(videoJSON), &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) SetVideoCache(ctx context.Context, video *model.Video) error {
	if r.rdb == nil {
		return nil
	}
	videoJSON, err := json.Marshal(video)
	if err != nil {
		return err
	}
	// 过期时间加随机抖动，防止缓存雪崩
	expiration := time.Minute*5 + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(ctx, r.keyVideoInfo(video.ID), videoJSON, expiration).Err()
}

func (r *videoRepository) DeleteVideoCache(ctx context.Context, videoID uint64) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(ctx, r.keyVideoInfo(videoID)).Err()
}
