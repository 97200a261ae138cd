package push

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quickeats/courier-client/internal/domain/models"
	"github.com/quickeats/courier-client/internal/domain/types"
	"github.com/quickeats/courier-client/pkg/logger"
	wrap "github.com/quickeats/courier-client/pkg/logger/wrapper"
	"github.com/quickeats/courier-client/pkg/rabbit"
)

const courierExchange = "courier_topic"

// RabbitChannel receives push messages from the courier's private queue
// on a RabbitMQ topic exchange. Used by deployments that keep couriers
// on the broker instead of the websocket gateway.
type RabbitChannel struct {
	client    *rabbit.RabbitMQ
	courierID string
	log       logger.Logger
}

func NewRabbitChannel(client *rabbit.RabbitMQ, courierID string, log logger.Logger) *RabbitChannel {
	return &RabbitChannel{
		client:    client,
		courierID: courierID,
		log:       log,
	}
}

func (r *RabbitChannel) Subscribe(ctx context.Context, handler Handler) error {
	const op = "push.RabbitChannel.Subscribe"

	if err := r.client.EnsureConnection(ctx); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	queueName := fmt.Sprintf("courier.%s.push", r.courierID)
	bindingKey := fmt.Sprintf("courier.%s", r.courierID)

	// Объявляем очередь
	q, err := r.client.Channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ctx = wrap.WithAction(ctx, "declare_queue")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to declare queue: %w", op, err))
	}

	// Привязываем очередь к exchange по ключу
	if err := r.client.Channel.QueueBind(
		q.Name,
		bindingKey,
		courierExchange,
		false,
		nil,
	); err != nil {
		ctx = wrap.WithAction(ctx, "bind_queue")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to bind queue: %w", op, err))
	}

	msgs, err := r.client.Channel.Consume(
		q.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false,
		false,
		nil,
	)
	if err != nil {
		ctx = wrap.WithAction(ctx, "consume data")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to register consumer: %w", op, err))
	}

	go func() {
		defer r.log.Warn(wrap.WithAction(ctx, types.ActionPushDisconnected),
			"push consumer stopped", "error", types.ErrPushChannelClosed.Error())

		for d := range msgs {
			var msg models.PushMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				r.log.Warn(wrap.WithAction(ctx, types.ActionPushDropped),
					"undecodable push message", "error", err.Error())
				continue
			}

			if err := handler(ctx, msg); err != nil {
				r.log.Warn(wrap.WithAction(ctx, types.ActionPushDropped),
					"push message not handled", "type", msg.Type.String(), "error", err.Error())
			}
		}
	}()

	return nil
}

func (r *RabbitChannel) Close(ctx context.Context) error {
	return r.client.Close(ctx)
}
