package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"faceswap-api/config"
	"faceswap-api/dto"
)

const (
	exchangeName = "faceswap_exchange"
	routingKey   = "swap.completed"
)

type Publisher interface {
	PublishSwapCompleted(ctx context.Context, message dto.SwapCompletedMessage) error
}

type publisher struct {
	conn *amqp.Connection
	cfg  *config.RabbitMQ
}

func NewPublisher(conn *amqp.Connection, cfg *config.RabbitMQ) Publisher {
	return &publisher{
		conn: conn,
		cfg:  cfg,
	}
}

func (p *publisher) PublishSwapCompleted(ctx context.Context, message dto.SwapCompletedMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	kind := p.cfg.Kind
	if kind == "" {
		kind = "topic"
	}
	if err := ch.ExchangeDeclare(exchangeName, kind, true, false, false, false, nil); err != nil {
		zerolog.Ctx(ctx).Error().Str("exchange", exchangeName).Msg("failed to declare exchange")
		return err
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
