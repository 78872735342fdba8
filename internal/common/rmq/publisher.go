package rmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmheroku/railway-station/internal/common/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ordersExchange = "orders"

// Publisher pushes order lifecycle events to the orders topic exchange.
type Publisher struct {
	rmq *RabbitMQ
}

func NewPublisher(rmq *RabbitMQ) *Publisher {
	return &Publisher{rmq: rmq}
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, msg OrderCreatedMessage) error {
	return p.publish(ctx, "order.created", strconv.FormatInt(msg.OrderID, 10), msg)
}

func (p *Publisher) PublishOrderCancelled(ctx context.Context, msg OrderCancelledMessage) error {
	return p.publish(ctx, "order.cancelled", strconv.FormatInt(msg.OrderID, 10), msg)
}

func (p *Publisher) publish(ctx context.Context, routingKey, orderID string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		logger.Error("publish_order_event", "failed to marshal order event", "", orderID, err.Error())
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	if err := p.rmq.Chan.ExchangeDeclare(
		ordersExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		logger.Error("publish_order_event", "failed to declare exchange", "", orderID, err.Error())
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := p.rmq.Chan.PublishWithContext(
		ctx,
		ordersExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		logger.Error("publish_order_event", fmt.Sprintf("failed to publish %s", routingKey), "", orderID, err.Error())
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	logger.Info("publish_order_event", fmt.Sprintf("%s event published", routingKey), "", orderID)
	return nil
}
