package service

import (
	"ViewTube/internal/apperr"
	"ViewTube/internal/counter"
	"ViewTube/internal/data"
	"ViewTube/internal/model"
	"ViewTube/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

// SubscriptionService 订阅开关：状态只有{未订阅, 已订阅}两种。
// 重复订阅/重复取消都是无害的no-op，自己订阅自己是非法操作。
type SubscriptionService interface {
	// Subscribe 返回频道用户（带最新订阅数）和订阅后的关系状态
	Subscribe(ctx context.Context, subscriberID, channelID uint64) (*model.User, bool, error)
	Unsubscribe(ctx context.Context, subscriberID, channelID uint64) (*model.User, bool, error)
	ListSubscriptions(ctx context.Context, userID uint64) ([]model.User, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID uint64) (bool, error)
}

type subscriptionService struct {
	userRepo repository.UserRepository
	subRepo  repository.SubscriptionRepository
	uow      data.UnitOfWork
}

func NewSubscriptionService(userRepo repository.UserRepository, subRepo repository.SubscriptionRepository, uow data.UnitOfWork) SubscriptionService {
	return &subscriptionService{
		userRepo: userRepo,
		subRepo:  subRepo,
		uow:      uow,
	}
}

// Subscribe 订阅频道：1、拒绝自我订阅 2、确认频道存在 3、条件插入关系记录
// 4、真插入了才重算订阅数。插入和重算在同一个事务里提交，
// 并发的重复请求被唯一索引吸收成no-op，计数由全量重算保证正确。
func (s *subscriptionService) Subscribe(ctx context.Context, subscriberID, channelID uint64) (*model.User, bool, error) {
	if subscriberID == channelID {
		return nil, false, apperr.Invalid("不能订阅自己的频道")
	}

	channel, err := s.userRepo.FindByID(ctx, channelID)
	if err != nil {
		return nil, false, apperr.FromStorage(err, "频道不存在", "")
	}

	err = s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		inserted, err := repos.SubscriptionRepo.Insert(ctx, subscriberID, channelID)
		if err != nil {
			return err
		}
		if !inserted {
			// 已经是订阅状态，关系层no-op，计数保持原值
			return nil
		}
		count, err := counter.RecomputeSubscriberCount(ctx, repos.UserRepo, repos.SubscriptionRepo, channelID)
		if err != nil {
			return err
		}
		channel.SubscribersCount = count
		return nil
	})
	if err != nil {
		return nil, false, apperr.Internal("订阅失败", err)
	}
	return channel, true, nil
}

// Unsubscribe 取消订阅，Subscribe的镜像：没删到记录就是no-op。
// 计数来自重算而不是减一，天然不会降到0以下。
func (s *subscriptionService) Unsubscribe(ctx context.Context, subscriberID, channelID uint64) (*model.User, bool, error) {
	if subscriberID == channelID {
		return nil, false, apperr.Invalid("不能取消订阅自己的频道")
	}

	channel, err := s.userRepo.FindByID(ctx, channelID)
	if err != nil {
		return nil, false, apperr.FromStorage(err, "频道不存在", "")
	}

	err = s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		deleted, err := repos.SubscriptionRepo.Delete(ctx, subscriberID, channelID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		count, err := counter.RecomputeSubscriberCount(ctx, repos.UserRepo, repos.SubscriptionRepo, channelID)
		if err != nil {
			return err
		}
		channel.SubscribersCount = count
		return nil
	})
	if err != nil {
		return nil, false, apperr.Internal("取消订阅失败", err)
	}
	return channel, false, nil
}

// ListSubscriptions 列出用户订阅的全部频道
func (s *subscriptionService) ListSubscriptions(ctx context.Context, userID uint64) ([]model.User, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, apperr.FromStorage(err, "用户不存在", "")
	}
	subs, err := s.subRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("获取订阅列表失败", err)
	}
	channels := make([]model.User, 0, len(subs))
	for _, sub := range subs {
		channels = append(channels, sub.Channel)
	}
	return channels, nil
}

func (s *subscriptionService) IsSubscribed(ctx context.Context, subscriberID, channelID uint64) (bool, error) {
	_, err := s.subRepo.Find(ctx, subscriberID, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperr.Internal("查询订阅状态失败", err)
	}
	return true, nil
}
