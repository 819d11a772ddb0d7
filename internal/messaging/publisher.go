package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const appID = "zenith-npc-service"

// ResponsePublisher delivers result envelopes to a caller's response topic.
type ResponsePublisher interface {
	Publish(ctx context.Context, topic string, envelope GenerationResponseEnvelope) error
}

// rabbitMQPublisher implements ResponsePublisher on an AMQP channel.
// The channel is owned by the caller and assumed to stay open.
type rabbitMQPublisher struct {
	channel *amqp.Channel
	logger  zerolog.Logger
}

// NewRabbitMQPublisher creates a publisher over an already-open channel.
func NewRabbitMQPublisher(ch *amqp.Channel, logger zerolog.Logger) ResponsePublisher {
	return &rabbitMQPublisher{
		channel: ch,
		logger:  logger.With().Str("component", "response_publisher").Logger(),
	}
}

// Publish declares the target queue and sends one JSON envelope to it. The
// envelope is tagged with the original request id via MessageId. Failures are
// counted but not retried; the response channel is best-effort.
func (p *rabbitMQPublisher) Publish(ctx context.Context, topic string, envelope GenerationResponseEnvelope) error {
	body, err := json.Marshal(envelope)
	if err != nil {
		responsesDropped.Inc()
		return fmt.Errorf("failed to marshal response envelope for request %s: %w", envelope.RequestID, err)
	}

	// Declare so a response to a fresh topic does not vanish when the caller
	// has not bound it yet.
	if _, err := p.channel.QueueDeclare(topic, true, false, false, false, nil); err != nil {
		responsesDropped.Inc()
		p.logger.Error().Err(err).Str("queue", topic).Str("request_id", envelope.RequestID).
			Msg("failed to declare response queue")
		return fmt.Errorf("failed to declare response queue %q: %w", topic, err)
	}

	err = p.channel.PublishWithContext(ctx,
		"",    // default exchange
		topic, // routing key = queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
			AppId:        appID,
			MessageId:    envelope.RequestID,
		},
	)
	if err != nil {
		responsesDropped.Inc()
		p.logger.Error().Err(err).Str("queue", topic).Str("request_id", envelope.RequestID).
			Msg("failed to publish response envelope")
		return fmt.Errorf("failed to publish response for request %s: %w", envelope.RequestID, err)
	}

	responsesPublished.Inc()
	p.logger.Info().Str("queue", topic).Str("request_id", envelope.RequestID).
		Bool("success", envelope.Response.Success).Msg("response envelope published")
	return nil
}
