package data

import (
	"ViewTube/internal/repository"
	"context"

	"gorm.io/gorm"
)

// UnitOfWork 把一段业务逻辑包进一个数据库事务里执行。
// 关系写入和计数重算必须同生共死，否则并发切换下计数会漂移。
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories 持有绑定到同一个事务的全部Repository副本
type TransactionalRepositories struct {
	UserRepo         repository.UserRepository
	VideoRepo        repository.VideoRepository
	CommentRepo      repository.CommentRepository
	SubscriptionRepo repository.SubscriptionRepository
	LikeRepo         repository.LikeRepository
}

type gormUnitOfWork struct {
	db               *gorm.DB
	userRepo         repository.UserRepository
	videoRepo        repository.VideoRepository
	commentRepo      repository.CommentRepository
	subscriptionRepo repository.SubscriptionRepository
	likeRepo         repository.LikeRepository
}

// NewUnitOfWork 接收原始的、非事务的repositories，Execute时再做事务绑定
func NewUnitOfWork(
	db *gorm.DB,
	userRepo repository.UserRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	subscriptionRepo repository.SubscriptionRepository,
	likeRepo repository.LikeRepository,
) UnitOfWork {
	return &gormUnitOfWork{
		db:               db,
		userRepo:         userRepo,
		videoRepo:        videoRepo,
		commentRepo:      commentRepo,
		subscriptionRepo: subscriptionRepo,
		likeRepo:         likeRepo,
	}
}

func (u *gormUnitOfWork) Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error {
	// fn返回error则整个事务回滚，返回nil则提交
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transactionalRepos := &TransactionalRepositories{
			UserRepo:         u.userRepo.WithTx(tx),
			VideoRepo:        u.videoRepo.WithTx(tx),
			CommentRepo:      u.commentRepo.WithTx(tx),
			SubscriptionRepo: u.subscriptionRepo.WithTx(tx),
			LikeRepo:         u.likeRepo.WithTx(tx),
		}
		return fn(transactionalRepos)
	})
}
