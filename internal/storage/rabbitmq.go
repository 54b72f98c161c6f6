package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"resume-agent-go/internal/constants"
	"resume-agent-go/internal/logger"
)

// CandidateProcessedEvent 候选人处理完成事件
type CandidateProcessedEvent struct {
	EventID     string    `json:"event_id"`
	CandidateID string    `json:"candidate_id"`
	FileName    string    `json:"file_name"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// NewCandidateProcessedEvent 构造事件并分配事件标识
func NewCandidateProcessedEvent(candidateID, fileName string, uploadedAt time.Time) CandidateProcessedEvent {
	return CandidateProcessedEvent{
		EventID:     uuid.NewString(),
		CandidateID: candidateID,
		FileName:    fileName,
		UploadedAt:  uploadedAt,
	}
}

// RabbitMQ 事件发布。单连接单通道，发布操作串行化
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
}

// NewRabbitMQ 建立连接并声明候选人事件交换机
func NewRabbitMQ(url string) (*RabbitMQ, error) {
	if url == "" {
		return nil, fmt.Errorf("RabbitMQ URL不能为空")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("打开RabbitMQ通道失败: %w", err)
	}

	mq := &RabbitMQ{conn: conn, channel: channel}
	if err := mq.ensureExchange(constants.CandidateEventsExchange); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, err
	}
	return mq, nil
}

func (mq *RabbitMQ) ensureExchange(name string) error {
	err := mq.channel.ExchangeDeclare(
		name,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("声明交换机 %s 失败: %w", name, err)
	}
	return nil
}

// PublishJSON 将载荷序列化为JSON后发布到候选人事件交换机
func (mq *RabbitMQ) PublishJSON(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化事件载荷失败: %w", err)
	}

	mq.mu.Lock()
	defer mq.mu.Unlock()

	err = mq.channel.PublishWithContext(ctx,
		constants.CandidateEventsExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("发布事件失败 (routing_key=%s): %w", routingKey, err)
	}

	logger.Debug().Str("routing_key", routingKey).Msg("事件发布成功")
	return nil
}

// Close 关闭通道与连接
func (mq *RabbitMQ) Close() error {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.channel != nil {
		_ = mq.channel.Close()
	}
	if mq.conn != nil {
		return mq.conn.Close()
	}
	return nil
}
