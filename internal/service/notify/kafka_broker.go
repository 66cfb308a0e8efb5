package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"unitcom_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaBroker routes events through a Kafka topic so every node's
// gateway sees every mutation. One consumer group per node: each node
// must fan events out to its own connected clients, so nodes do NOT
// share a group id.
type KafkaBroker struct {
	producer *kafka.Writer
	consumer *kafka.Reader
	sender   Sender

	ctx    context.Context
	cancel context.CancelFunc
}

// NewKafkaBroker builds the writer/reader pair from config.
func NewKafkaBroker(sender Sender, groupId string) *KafkaBroker {
	kafkaConfig := config.GetConfig().KafkaConfig
	ctx, cancel := context.WithCancel(context.Background())

	return &KafkaBroker{
		producer: &kafka.Writer{
			Addr:                   kafka.TCP(kafkaConfig.HostPort),
			Topic:                  kafkaConfig.NotifyTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           kafkaConfig.Timeout,
			RequiredAcks:           kafka.RequireNone,
			AllowAutoTopicCreation: true,
		},
		consumer: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{kafkaConfig.HostPort},
			Topic:          kafkaConfig.NotifyTopic,
			CommitInterval: kafkaConfig.Timeout,
			GroupID:        groupId,
			StartOffset:    kafka.LastOffset,
		}),
		sender: sender,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Publish produces the event to the notify topic, keyed by conversation
// so related events stay ordered within a partition.
func (b *KafkaBroker) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ConversationId),
		Value: value,
	})
}

// Start consumes the topic and fans out to local connections until Close.
func (b *KafkaBroker) Start() {
	for {
		msg, err := b.consumer.ReadMessage(b.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			zap.L().Error("kafka notify read failed", zap.Error(err))
			continue
		}

		var event Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			zap.L().Error("kafka notify decode failed", zap.Error(err))
			continue
		}

		payload := event.Encode()
		if payload == nil {
			continue
		}
		for _, recipient := range event.Recipients {
			b.sender.SendToUser(recipient, payload)
		}
	}
}

// Close stops the consumer loop and releases the Kafka resources.
func (b *KafkaBroker) Close() {
	b.cancel()
	if err := b.producer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	if err := b.consumer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
}
