package main

import (
	"ViewTube/internal/repository"
	"ViewTube/internal/service"
	"ViewTube/pkg/logger"
	"ViewTube/pkg/rabbitmq"
	"ViewTube/pkg/redis"
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// 缓存刷新进程：互动（赞/踩/评论）在请求事务里落库，这里只负责
// 在事务提交后把Redis里的视频缓存刷成带最新计数的版本。
// 刷新是幂等的，重复消费同一条消息只是多写一次相同内容。
func main() {
	logger.InitLogger()

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/viewtube?charset=utf8mb4&parseTime=True&loc=Local"
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}

	redisClient, err := redis.InitRedis()
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到Redis: %v", err)
	}

	rabbitMQConn, err := rabbitmq.InitRabbitMQ()
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()

	videoRepo := repository.NewVideoRepository(db, redisClient)

	ch, err := rabbitMQConn.Channel()
	if err != nil {
		logger.Log.Fatalf("无法打开Channel: %v", err)
	}
	defer ch.Close()

	// 声明是幂等的，消费者先于服务端启动时也能建好队列
	if _, err := ch.QueueDeclare(service.QueueEngagement, true, false, false, false, nil); err != nil {
		logger.Log.Fatalf("无法声明队列: %v", err)
	}

	msgs, err := ch.Consume(
		service.QueueEngagement, // queue
		"",                      // consumer
		false,                   // auto-ack 手动确认
		false,                   // exclusive
		false,                   // no-local
		false,                   // no-wait
		nil,                     // args
	)
	if err != nil {
		logger.Log.Fatalf("无法注册消费者: %v", err)
	}

	forever := make(chan bool)

	go func() {
		// msgs是channel，队列为空时阻塞而不是退出循环
		for d := range msgs {
			logCtx := logger.Log.WithField("body", string(d.Body)).WithField("redelivered", d.Redelivered)
			logCtx.Info("收到一条互动事件")

			var msg service.EngagementMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				logCtx.WithError(err).Error("消息JSON解析失败")
				// 解析不了的坏消息重试也没用，直接丢弃
				d.Nack(false, false)
				continue
			}

			if err := refreshVideoCache(videoRepo, msg.VideoID); err != nil {
				logCtx.WithError(err).Error("刷新视频缓存失败，将进行重试")
				d.Nack(false, true)
				continue
			}
			d.Ack(false)
		}
	}()

	logger.Log.Info(" [*] 等待互动事件中. 按 CTRL+C 退出")
	<-forever
}

// refreshVideoCache 从数据库读权威数据写回缓存；视频已被删除时清掉缓存
func refreshVideoCache(videoRepo repository.VideoRepository, videoID uint64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	video, err := videoRepo.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return videoRepo.DeleteVideoCache(ctx, videoID)
		}
		return err
	}
	return videoRepo.SetVideoCache(ctx, video)
}
