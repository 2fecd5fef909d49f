// Package push 实现推送事件总线
// kafka_bus.go
// 核心职责：分布式模式下的事件总线实现
// 多实例部署时，事件经 Kafka 广播到每个实例，
// 各实例的分发器只向本机持有连接的接收者投递
package push

import (
	"context"
	"time"

	"huddle_social_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaBus 基于 Kafka 的分布式事件总线
type KafkaBus struct {
	producer   *kafka.Writer
	consumer   *kafka.Reader
	dispatcher *Dispatcher
	done       chan struct{}
}

// NewKafkaBus 创建 Kafka 事件总线
// 接收者可能连接在任意一台实例上，每个实例都要消费全量事件：
// 多实例部署时每个实例配置各自独立的 GroupID，不得共享
func NewKafkaBus(dispatcher *Dispatcher) *KafkaBus {
	kafkaConfig := config.GetConfig().KafkaConfig

	producer := &kafka.Writer{
		Addr:                   kafka.TCP(kafkaConfig.HostPort),
		Topic:                  kafkaConfig.EventTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           kafkaConfig.Timeout * time.Second,
		RequiredAcks:           kafka.RequireNone,
		AllowAutoTopicCreation: false,
	}
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{kafkaConfig.HostPort},
		Topic:          kafkaConfig.EventTopic,
		CommitInterval: kafkaConfig.Timeout * time.Second,
		GroupID:        kafkaConfig.GroupID,
		StartOffset:    kafka.LastOffset,
	})

	return &KafkaBus{
		producer:   producer,
		consumer:   consumer,
		dispatcher: dispatcher,
		done:       make(chan struct{}),
	}
}

// Publish 发布事件到 Kafka
// 使用接收者 ID 作为消息键，同一接收者的事件保持分区内有序
func (b *KafkaBus) Publish(ctx context.Context, event *Event) error {
	data, err := event.Encode()
	if err != nil {
		return err
	}
	return b.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.To),
		Value: data,
	})
}

// Start 启动消费循环，从 Kafka 读取事件并投递
func (b *KafkaBus) Start() {
	zap.L().Info("KafkaBus started")
	ctx := context.Background()
	for {
		select {
		case <-b.done:
			return
		default:
		}

		msg, err := b.consumer.ReadMessage(ctx)
		if err != nil {
			zap.L().Error("读取推送事件失败", zap.Error(err))
			continue
		}

		event, err := DecodeEvent(msg.Value)
		if err != nil {
			zap.L().Error("解析推送事件失败", zap.Error(err))
			continue
		}
		b.dispatcher.Dispatch(event)
	}
}

// Close 关闭 Kafka 资源
func (b *KafkaBus) Close() {
	close(b.done)
	if err := b.producer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	if err := b.consumer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
}

var _ EventBus = (*KafkaBus)(nil)
