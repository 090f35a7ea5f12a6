package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/fashion-rag/internal/cfg"
	"github.com/DRSN-tech/fashion-rag/internal/usecase"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
	"github.com/DRSN-tech/fashion-rag/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

// Producer публикует события каталога в Kafka.
// Ключом сообщения служит external_id товара: события одного товара
// попадают в одну партицию и сохраняют порядок.
type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) (*Producer, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s", err.Error())
			}
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}, nil
}

func (p *Producer) WriteRawMessage(ctx context.Context, req *usecase.WriteRawMessageReq) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(req.ExternalID),
		Value: req.Payload,
	})
}

func (p *Producer) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		err := conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
