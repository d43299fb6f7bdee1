package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"seatwise/pkg/logger"

	"github.com/IBM/sarama"
)

// Consumer drains booking confirmations from Kafka
type Consumer interface {
	Start(ctx context.Context) error
	Stop() error
}

// ConsumerConfig contains configuration for the confirmation consumer
type ConsumerConfig struct {
	Brokers          []string
	GroupID          string
	Topic            string
	SessionTimeoutMs int
	HeartbeatMs      int
	OffsetOldest     bool
}

// DefaultConsumerConfig returns a default consumer configuration
func DefaultConsumerConfig(brokers []string, groupID, topic string) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:          brokers,
		GroupID:          groupID,
		Topic:            topic,
		SessionTimeoutMs: 30000,
		HeartbeatMs:      3000,
		OffsetOldest:     false,
	}
}

type kafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	topic         string
	log           *logger.Logger
	cancel        context.CancelFunc
}

// NewKafkaConsumer creates a consumer-group worker that records
// booking confirmations as they arrive
func NewKafkaConsumer(config *ConsumerConfig) (Consumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaConsumer{
		consumerGroup: consumerGroup,
		topic:         config.Topic,
		log:           logger.GetDefault(),
	}, nil
}

func (kc *kafkaConsumer) Start(ctx context.Context) error {
	ctx, kc.cancel = context.WithCancel(ctx)

	go kc.handleErrors()

	handler := &confirmationHandler{log: kc.log}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if err := kc.consumerGroup.Consume(ctx, []string{kc.topic}, handler); err != nil {
					kc.log.WithError(err).Warn("Error consuming booking confirmations")
					time.Sleep(time.Second)
				}
			}
		}
	}()

	return nil
}

func (kc *kafkaConsumer) handleErrors() {
	for err := range kc.consumerGroup.Errors() {
		kc.log.WithError(err).Warn("Consumer group error")
	}
}

func (kc *kafkaConsumer) Stop() error {
	if kc.cancel != nil {
		kc.cancel()
	}
	if err := kc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type confirmationHandler struct {
	log *logger.Logger
}

func (h *confirmationHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *confirmationHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *confirmationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := h.processMessage(message); err != nil {
				h.log.WithError(err).Warn("Error processing booking confirmation")
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *confirmationHandler) processMessage(message *sarama.ConsumerMessage) error {
	var msg BookingConfirmedMessage
	if err := json.Unmarshal(message.Value, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal booking confirmation: %w", err)
	}

	// Delivery channels (email, push) are out of scope; record receipt
	h.log.Info("Booking confirmation received",
		"booking_id", msg.BookingID,
		"event_id", msg.EventID,
		"section_id", msg.SectionID,
		"qty", msg.Qty,
		"remaining_seats", msg.RemainingSeats,
	)

	return nil
}
