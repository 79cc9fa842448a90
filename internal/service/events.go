package service

import (
	"encoding/json"

	"github.com/streadway/amqp"
)

const (
	// 遵循：项目名.业务领域.实体/功能
	QueueEngagement = "viewtube.engagement.queue"

	ActionLike    = "like"
	ActionDislike = "dislike"
	ActionComment = "comment"
)

// EngagementMessage 互动事件：点赞/点踩/评论提交后发出，
// 消费者据此刷新Redis里的视频缓存，让缓存尽快反映新计数
type EngagementMessage struct {
	UserID  uint64 `json:"user_id"`
	VideoID uint64 `json:"video_id"`
	Action  string `json:"action"`
}

// EventPublisher 抽象出消息发布，便于在测试里替换
type EventPublisher interface {
	PublishEngagement(msg EngagementMessage) error
}

type amqpPublisher struct {
	conn *amqp.Connection
}

// NewAMQPPublisher 创建RabbitMQ发布器并声明持久化队列（声明是幂等的）
func NewAMQPPublisher(conn *amqp.Connection) (EventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()
	if _, err := ch.QueueDeclare(
		QueueEngagement, // name
		true,            // durable
		false,           // autoDelete
		false,           // exclusive
		false,           // noWait
		nil,             // args
	); err != nil {
		return nil, err
	}
	return &amqpPublisher{conn: conn}, nil
}

// 每条消息用一个独立的channel发送，消息之间互不影响
func (p *amqpPublisher) PublishEngagement(msg EngagementMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return ch.Publish(
		"",              // exchange 默认交换机
		QueueEngagement, // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
}
