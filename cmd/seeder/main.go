package main

import (
	"ViewTube/internal/counter"
	"ViewTube/internal/model"
	"ViewTube/internal/repository"
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/go-faker/faker/v4"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 填充测试数据：用户、视频、订阅、点赞、评论，最后统一重算全部派生计数
func main() {
	_ = godotenv.Load()
	fmt.Println("开始填充测试数据...")

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/viewtube?charset=utf8mb4&parseTime=True&loc=Local"
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("无法连接到数据库: %v", err)
	}

	// 先删旧表再重建，保证每次填充都是干净的。注意：这会删除所有数据！
	db.Migrator().DropTable(
		&model.Comment{}, &model.VideoLike{}, &model.Subscription{},
		&model.Video{}, &model.User{},
	)
	if err := db.AutoMigrate(
		&model.User{}, &model.Video{}, &model.Comment{},
		&model.Subscription{}, &model.VideoLike{},
	); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 所有测试用户统一用密码 "password"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("密码加密失败: %v", err)
	}

	const userCount = 100
	for i := 0; i < userCount; i++ {
		user := model.User{
			Username: faker.Username(),
			Email:    faker.Email(),
			Password: string(hashedPassword),
		}
		db.Create(&user)
	}
	fmt.Printf("成功创建 %d 个用户\n", userCount)

	const videoCount = 500
	for i := 0; i < videoCount; i++ {
		video := model.Video{
			UserID:      uint64(rand.Intn(userCount) + 1),
			Title:       faker.Sentence(),
			Description: faker.Paragraph(),
			VodVideoID:  faker.UUIDDigit(),
			Cover:       "https://test.com/cover.jpg",
		}
		db.Create(&video)
	}
	fmt.Printf("成功创建 %d 个视频\n", videoCount)

	// 随机订阅：OnConflict吸收重复的(user, channel)对，自我订阅跳过
	const subscriptionCount = 800
	for i := 0; i < subscriptionCount; i++ {
		userID := uint64(rand.Intn(userCount) + 1)
		channelID := uint64(rand.Intn(userCount) + 1)
		if userID == channelID {
			continue
		}
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "channel_id"}},
			DoNothing: true,
		}).Create(&model.Subscription{UserID: userID, ChannelID: channelID})
	}
	fmt.Printf("成功创建(或尝试创建) %d 个随机订阅\n", subscriptionCount)

	// 随机点赞/点踩，约1/4是踩
	const likeCount = 2000
	for i := 0; i < likeCount; i++ {
		polarity := model.PolarityLike
		if rand.Intn(4) == 0 {
			polarity = model.PolarityDislike
		}
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoNothing: true,
		}).Create(&model.VideoLike{
			UserID:   uint64(rand.Intn(userCount) + 1),
			VideoID:  uint64(rand.Intn(videoCount) + 1),
			Polarity: polarity,
		})
	}
	fmt.Printf("成功创建(或尝试创建) %d 个随机点赞\n", likeCount)

	const commentCount = 1500
	for i := 0; i < commentCount; i++ {
		db.Create(&model.Comment{
			UserID:  uint64(rand.Intn(userCount) + 1),
			VideoID: uint64(rand.Intn(videoCount) + 1),
			Content: faker.Sentence(),
		})
	}
	fmt.Printf("成功创建 %d 条评论\n", commentCount)

	// 关系记录是直接灌进去的，派生计数还都是0，最后统一重算一遍
	fmt.Println("正在重算派生计数...")
	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db, nil)
	commentRepo := repository.NewCommentRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	for id := uint64(1); id <= userCount; id++ {
		if _, err := counter.RecomputeSubscriberCount(ctx, userRepo, subscriptionRepo, id); err != nil {
			log.Fatalf("重算订阅数失败: %v", err)
		}
	}
	for id := uint64(1); id <= videoCount; id++ {
		if _, _, err := counter.RecomputeLikeCounts(ctx, videoRepo, likeRepo, id); err != nil {
			log.Fatalf("重算点赞数失败: %v", err)
		}
		if _, err := counter.RecomputeCommentCount(ctx, videoRepo, commentRepo, id); err != nil {
			log.Fatalf("重算评论数失败: %v", err)
		}
	}

	fmt.Println("所有测试数据填充完毕!")
}
