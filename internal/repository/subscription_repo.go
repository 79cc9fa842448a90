package repository

import (
	"ViewTube/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository 订阅关系的点查/点写，计数查询只给counter包用
type SubscriptionRepository interface {
	Find(ctx context.Context, userID, channelID uint64) (*model.Subscription, error)
	// Insert 条件插入：撞上联合唯一索引就什么都不做，返回是否真的插入了新记录
	Insert(ctx context.Context, userID, channelID uint64) (bool, error)
	// Delete 按键删除，返回是否真的删掉了记录
	Delete(ctx context.Context, userID, channelID uint64) (bool, error)
	Exists(ctx context.Context, userID, channelID uint64) (bool, error)
	// ListByUser 列出某用户订阅的全部频道，预加载频道信息
	ListByUser(ctx context.Context, userID uint64) ([]model.Subscription, error)
	// ChannelIDsByUser 只取频道ID列表，给订阅feed用
	ChannelIDsByUser(ctx context.Context, userID uint64) ([]uint64, error)
	CountByChannel(ctx context.Context, channelID uint64) (int64, error)

	WithTx(tx *gorm.DB) SubscriptionRepository
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) WithTx(tx *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: tx}
}

func (r *subscriptionRepository) Find(ctx context.Context, userID, channelID uint64) (*model.Subscription, error) {
	var result model.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND channel_id = ?", userID, channelID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *subscriptionRepository) Insert(ctx context.Context, userID, channelID uint64) (bool, error) {
	sub := &model.Subscription{UserID: userID, ChannelID: channelID}
	// OnConflict DoNothing：并发的重复订阅在数据库层被吸收，不会报1062也不会多出记录
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "channel_id"}},
		DoNothing: true,
	}).Create(sub)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, userID, channelID uint64) (bool, error) {
	// 软删除会让唯一索引挡住用户再次订阅，关系记录必须物理删除，所以走原生SQL
	result := r.db.WithContext(ctx).
		Exec("DELETE FROM subscriptions WHERE user_id = ? AND channel_id = ?", userID, channelID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, userID, channelID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ? AND channel_id = ?", userID, channelID).
		Count(&count).Error
	return count > 0, err
}

func (r *subscriptionRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.WithContext(ctx).
		Preload("Channel").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) ChannelIDsByUser(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ?", userID).
		Pluck("channel_id", &ids).Error
	return ids, err
}

func (r *subscriptionRepository) CountByChannel(ctx context.Context, channelID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, err
}
