package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrKafkaBrokersRequired is returned when no Kafka brokers are configured.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	// Brokers lists Kafka broker addresses.
	Brokers []string
	// BatchTimeout bounds how long the writer waits to fill a batch. Zero means 10ms.
	BatchTimeout time.Duration
	// RequiredAcks is the ack level; zero means kafka.RequireOne.
	RequiredAcks kafka.RequiredAcks
	// Transport overrides the default dialing transport.
	Transport kafka.RoundTripper
}

// Kafka publishes through one kafka-go Writer per topic.
type Kafka struct {
	closeState

	cfg KafkaConfig

	wmu     sync.Mutex
	writers map[string]*kafka.Writer
}

// NewKafka constructs a Kafka publisher. Connections are opened lazily.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.RequiredAcks == kafka.RequireNone {
		cfg.RequiredAcks = kafka.RequireOne
	}
	cfg.Brokers = append([]string(nil), cfg.Brokers...)

	return &Kafka{cfg: cfg, writers: map[string]*kafka.Writer{}}, nil
}

// Publish writes msg to the topic destination and waits for the configured acks.
func (k *Kafka) Publish(ctx context.Context, destination string, msg Message) error {
	if err := checkPublish(ctx, &k.closeState, destination); err != nil {
		return err
	}

	kmsg := kafka.Message{Key: msg.Key, Value: msg.Body, Time: time.Now()}
	for key, val := range msg.Headers {
		kmsg.Headers = append(kmsg.Headers, kafka.Header{Key: key, Value: []byte(val)})
	}

	if err := k.writer(destination).WriteMessages(ctx, kmsg); err != nil {
		return fmt.Errorf("messaging: kafka publish: %w", err)
	}
	return nil
}

func (k *Kafka) writer(topic string) *kafka.Writer {
	k.wmu.Lock()
	defer k.wmu.Unlock()

	if w, ok := k.writers[topic]; ok {
		return w
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(k.cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           k.cfg.BatchTimeout,
		RequiredAcks:           k.cfg.RequiredAcks,
		Transport:              k.cfg.Transport,
		AllowAutoTopicCreation: true,
	}
	k.writers[topic] = w
	return w
}

// Close flushes and closes every writer.
func (k *Kafka) Close() error {
	if !k.markClosed() {
		return nil
	}

	k.wmu.Lock()
	writers := k.writers
	k.writers = map[string]*kafka.Writer{}
	k.wmu.Unlock()

	var errs error
	for _, w := range writers {
		errs = errors.Join(errs, w.Close())
	}
	return errs
}
