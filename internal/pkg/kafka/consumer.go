package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Handler processes one task. Returned errors are logged, the message is
// committed either way.
type Handler func(ctx context.Context, task entity.ProcessingTask) error

type Consumer interface {
	// Run blocks until ctx is cancelled, handling one task at a time.
	Run(ctx context.Context, handle Handler) error
	Close() error
}

type kafkaConsumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	logrus.WithFields(logrus.Fields{"brokers": brokers, "topic": topic, "group": groupID}).Info("kafka consumer configured")
	return &kafkaConsumer{reader: reader}
}

func (c *kafkaConsumer) Run(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logrus.WithError(err).Error("error reading message from kafka")
			return err
		}

		logrus.WithFields(logrus.Fields{
			"topic":     msg.Topic,
			"partition": msg.Partition,
			"offset":    msg.Offset,
		}).Debug("message received")

		dispatch(ctx, msg.Value, handle)

		if err := c.reader.CommitMessages(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
			logrus.WithError(err).Warn("commit failed")
		}
	}
}

func (c *kafkaConsumer) Close() error {
	return c.reader.Close()
}

// dispatch decodes a raw task and hands it to handle.
func dispatch(ctx context.Context, value []byte, handle Handler) {
	var task entity.ProcessingTask
	if err := json.Unmarshal(value, &task); err != nil {
		logrus.WithError(err).Warn("failed to parse task")
		return
	}
	if err := handle(ctx, task); err != nil {
		logrus.WithError(err).WithField("job_id", task.JobID).Error("task failed")
	}
}
