package pkg

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer 关注事件的下游投递通道，outbox relayer 使用
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func NewKafkaProducer(cfg KafkaConfig) *KafkaProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &KafkaProducer{writer: w, topic: cfg.Topic}
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Send 按 key 分区写入，同一用户的事件保序
func (p *KafkaProducer) Send(ctx context.Context, key uint64, value []byte) error {
	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(key, 10)),
		Value: value,
	}
	return p.writer.WriteMessages(ctx, msg)
}
