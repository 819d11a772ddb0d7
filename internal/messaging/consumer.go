package messaging

import (
	"context"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"zenith-npc-service/internal/model"
	"zenith-npc-service/internal/service"
)

// Processor handles one request envelope end to end: decode, run the shared
// pipeline once, deliver the result to the declared response topic. Separate
// from the AMQP consume loop for testability.
type Processor struct {
	pipeline          *service.Service
	publisher         ResponsePublisher
	defaultRespTopic  string
	logger            zerolog.Logger
}

// NewProcessor creates a request processor.
func NewProcessor(pipeline *service.Service, publisher ResponsePublisher, defaultResponseTopic string, logger zerolog.Logger) *Processor {
	return &Processor{
		pipeline:         pipeline,
		publisher:        publisher,
		defaultRespTopic: defaultResponseTopic,
		logger:           logger.With().Str("component", "request_processor").Logger(),
	}
}

// Process consumes one message body. An undecodable envelope is dropped
// silently (no destination to answer to); every decoded envelope gets exactly
// one pipeline run and a best-effort response delivery.
func (p *Processor) Process(ctx context.Context, body []byte) error {
	requestsReceived.Inc()

	env, err := DecodeRequestEnvelope(body, p.defaultRespTopic)
	if err != nil {
		envelopeDecodeFailures.Inc()
		p.logger.Error().Err(err).Msg("dropping undecodable request envelope")
		return err
	}

	logger := p.logger.With().Str("request_id", env.RequestID).Logger()
	logger.Info().Int("count", env.Request.NormalizedCount()).
		Str("response_topic", env.ResponseTopic).Msg("processing generation request")

	result, genErr := p.pipeline.Generate(ctx, env.Request)

	var response GenerationResponseEnvelope
	switch {
	case genErr == nil:
		requestsSucceeded.Inc()
		response = NewSuccessResponse(env.RequestID, result)
	case errors.Is(genErr, model.ErrNoRecordsGenerated):
		requestsFailed.WithLabelValues("no_records").Inc()
		response = NewFailureResponse(env.RequestID, result.RequestedCount, model.ErrNoRecordsMessage)
	default:
		// Unexpected mid-pipeline failure; correlation data is already in
		// hand, so attempt a best-effort error delivery.
		requestsFailed.WithLabelValues("pipeline").Inc()
		logger.Error().Err(genErr).Msg("pipeline failed")
		response = NewFailureResponse(env.RequestID, result.RequestedCount, genErr.Error())
	}

	if err := p.publisher.Publish(ctx, env.ResponseTopic, response); err != nil {
		// No retry and no dead-letter: the response channel is a best-effort
		// acknowledgment, and the drop is already counted.
		logger.Error().Err(err).Msg("failed to deliver response envelope")
	}
	return nil
}

// Consumer drives the Processor from a RabbitMQ queue.
type Consumer struct {
	channel   *amqp.Channel
	queueName string
	processor *Processor
	logger    zerolog.Logger
}

// NewConsumer declares the durable request queue and sets prefetch 1 so
// requests are handled one at a time.
func NewConsumer(ch *amqp.Channel, queueName string, processor *Processor, logger zerolog.Logger) (*Consumer, error) {
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return nil, err
	}
	return &Consumer{
		channel:   ch,
		queueName: queueName,
		processor: processor,
		logger:    logger.With().Str("component", "request_consumer").Str("queue", queueName).Logger(),
	}, nil
}

// Run consumes until the context is canceled or the channel closes. Decoded
// messages are always acked after processing; undecodable ones are nacked
// without requeue so they do not loop forever.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.channel.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	c.logger.Info().Msg("waiting for generation requests")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("consumer stopping")
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				c.logger.Warn().Msg("delivery channel closed")
				return nil
			}
			if err := c.processor.Process(ctx, msg.Body); err != nil {
				msg.Nack(false, false)
				continue
			}
			msg.Ack(false)
		}
	}
}
