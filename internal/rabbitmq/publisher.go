package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/card-management/internal/models"
)

// CardEventsExchange — exchange для событий жизненного цикла карт.
const CardEventsExchange = "card.events"

// Ключи маршрутизации событий карт.
const (
	RoutingKeyCreated   = "card.created"
	RoutingKeyBlocked   = "card.blocked"
	RoutingKeyActivated = "card.activated"
	RoutingKeyExpired   = "card.expired"
)

// Publisher публикует события карт в RabbitMQ.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishCardEvent публикует событие карты с указанным ключом маршрутизации.
func (p *Publisher) PublishCardEvent(_ context.Context, routingKey string, event models.CardEvent) error {
	const op = "rabbitmq.PublishCardEvent"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		CardEventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
