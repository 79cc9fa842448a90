package repository

import (
	"ViewTube/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository 点赞关系的点查/点写，按(user, video)复合键定位
type LikeRepository interface {
	Find(ctx context.Context, userID, videoID uint64) (*model.VideoLike, error)
	// Upsert 插入或改写极性：一对(user, video)永远至多一条记录
	Upsert(ctx context.Context, userID, videoID uint64, polarity int8) error
	// Delete 按键删除，返回是否真的删掉了记录
	Delete(ctx context.Context, userID, videoID uint64) (bool, error)
	CountByVideo(ctx context.Context, videoID uint64, polarity int8) (int64, error)
	// LikedVideoIDs 某用户点过赞的视频ID，按点赞时间倒序分页
	LikedVideoIDs(ctx context.Context, userID uint64, offset, limit int) ([]uint64, error)
	CountLikedByUser(ctx context.Context, userID uint64) (int64, error)
	DeleteByVideo(ctx context.Context, videoID uint64) error

	WithTx(tx *gorm.DB) LikeRepository
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) WithTx(tx *gorm.DB) LikeRepository {
	return &likeRepository{db: tx}
}

func (r *likeRepository) Find(ctx context.Context, userID, videoID uint64) (*model.VideoLike, error) {
	var result model.VideoLike
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *likeRepository) Upsert(ctx context.Context, userID, videoID uint64, polarity int8) error {
	record := &model.VideoLike{UserID: userID, VideoID: videoID, Polarity: polarity}
	// 撞上联合唯一索引就改写极性，并发下由数据库行锁串行化
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"polarity": polarity}),
	}).Create(record).Error
}

func (r *likeRepository) Delete(ctx context.Context, userID, videoID uint64) (bool, error) {
	// 物理删除：没有记录即中立，软删除的“尸体”会卡住唯一索引
	result := r.db.WithContext(ctx).
		Exec("DELETE FROM video_likes WHERE user_id = ? AND video_id = ?", userID, videoID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *likeRepository) CountByVideo(ctx context.Context, videoID uint64, polarity int8) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VideoLike{}).
		Where("video_id = ? AND polarity = ?", videoID, polarity).
		Count(&count).Error
	return count, err
}

func (r *likeRepository) LikedVideoIDs(ctx context.Context, userID uint64, offset, limit int) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&model.VideoLike{}).
		Where("user_id = ? AND polarity = ?", userID, model.PolarityLike).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Pluck("video_id", &ids).Error
	return ids, err
}

func (r *likeRepository) CountLikedByUser(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VideoLike{}).
		Where("user_id = ? AND polarity = ?", userID, model.PolarityLike).
		Count(&count).Error
	return count, err
}

func (r *likeRepository) DeleteByVideo(ctx context.Context, videoID uint64) error {
	return r.db.WithContext(ctx).
		Exec("DELETE FROM video_likes WHERE video_id = ?", videoID).Error
}
