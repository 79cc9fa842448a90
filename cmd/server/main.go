package main

import (
	"ViewTube/internal/data"
	"ViewTube/internal/handler"
	"ViewTube/internal/model"
	"ViewTube/internal/repository"
	"ViewTube/internal/router"
	"ViewTube/internal/service"
	"ViewTube/pkg/logger"
	"ViewTube/pkg/rabbitmq"
	"ViewTube/pkg/redis"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// .env不存在也没关系，环境变量可以由部署环境注入
	_ = godotenv.Load()

	logger.InitLogger()

	redisClient, err := redis.InitRedis()
	if err != nil {
		logger.Log.Fatalf("无法连接到Redis: %v", err)
	}
	logger.Log.Info("Redis连接成功")

	rabbitMQConn, err := rabbitmq.InitRabbitMQ()
	if err != nil {
		logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()
	logger.Log.Info("RabbitMQ连接成功")

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/viewtube?charset=utf8mb4&parseTime=True&loc=Local"
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("无法连接到数据库: %v", err)
	}
	logger.Log.Info("数据库连接成功")

	if err := db.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.Comment{},
		&model.Subscription{},
		&model.VideoLike{},
	); err != nil {
		logger.Log.Fatalf("数据库迁移失败: %v", err)
	}
	logger.Log.Info("数据库迁移成功")

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	uow := data.NewUnitOfWork(db, userRepo, videoRepo, commentRepo, subscriptionRepo, likeRepo)

	publisher, err := service.NewAMQPPublisher(rabbitMQConn)
	if err != nil {
		logger.Log.Fatalf("无法初始化消息发布器: %v", err)
	}

	userService := service.NewUserService(userRepo)
	subscriptionService := service.NewSubscriptionService(userRepo, subscriptionRepo, uow)
	videoService := service.NewVideoService(videoRepo, likeRepo, subscriptionRepo, uow)
	likeService := service.NewLikeService(videoRepo, likeRepo, uow, publisher)
	commentService := service.NewCommentService(commentRepo, videoRepo, uow, publisher)

	userHandler := handler.NewUserHandler(userService, subscriptionService)
	videoHandler := handler.NewVideoHandler(videoService)
	commentHandler := handler.NewCommentHandler(commentService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	likeHandler := handler.NewLikeHandler(likeService)

	r := router.SetupRouter(userHandler, videoHandler, commentHandler, subscriptionHandler, likeHandler)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logger.Log.Printf("服务器将在%s启动", addr)
	if err := r.Run(addr); err != nil {
		logger.Log.Fatalf("服务器启动失败: %v", err)
	}
}
