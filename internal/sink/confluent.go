package sink

import (
	"encoding/json"
	"fmt"

	ck "github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"ordersynth/internal/model"
)

// flushTimeoutMs bounds how long Close waits for outstanding deliveries.
const flushTimeoutMs = 5000

// confluentProducer abstracts *ck.Producer for testability.
type confluentProducer interface {
	Produce(msg *ck.Message, deliveryChan chan ck.Event) error
	Flush(timeoutMs int) int
	Close()
}

// ConfluentWriter publishes rows through librdkafka with idempotence on.
// Each Append waits for its delivery report.
type ConfluentWriter struct {
	producer  confluentProducer
	topic     string
	delivered chan ck.Event
}

func NewConfluentWriter(bootstrap string, topic string) (*ConfluentWriter, error) {
	p, err := ck.NewProducer(&ck.ConfigMap{
		"bootstrap.servers":  bootstrap,
		"enable.idempotence": true,
		"acks":               "all",
	})
	if err != nil {
		return nil, fmt.Errorf("producer: %w", err)
	}
	return NewConfluentWriterWith(p, topic), nil
}

// NewConfluentWriterWith is only for tests to inject a fake producer.
func NewConfluentWriterWith(p confluentProducer, topic string) *ConfluentWriter {
	return &ConfluentWriter{producer: p, topic: topic, delivered: make(chan ck.Event, 1)}
}

func (c *ConfluentWriter) Append(r model.FlatRow) error {
	b, err := json.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	msg := &ck.Message{
		TopicPartition: ck.TopicPartition{Topic: &c.topic, Partition: ck.PartitionAny},
		Key:            []byte(r.Key()),
		Value:          b,
	}
	if err := c.producer.Produce(msg, c.delivered); err != nil {
		return fmt.Errorf("produce: %w", err)
	}
	ev := <-c.delivered
	m, ok := ev.(*ck.Message)
	if !ok {
		return fmt.Errorf("unexpected delivery event: %v", ev)
	}
	if m.TopicPartition.Error != nil {
		return fmt.Errorf("delivery: %w", m.TopicPartition.Error)
	}
	return nil
}

func (c *ConfluentWriter) Close() error {
	remaining := c.producer.Flush(flushTimeoutMs)
	c.producer.Close()
	if remaining > 0 {
		return fmt.Errorf("%d messages not delivered", remaining)
	}
	return nil
}
