package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Ключи маршрутизации событий жизненного цикла.
const (
	RoutingKeyRegistered = "account.registered"
	RoutingKeyDeleted    = "account.deleted"
)

// AccountEvent сообщение о событии учётной записи.
type AccountEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	AccountID  int       `json:"account_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewAccountEvent собирает событие с уникальным идентификатором.
func NewAccountEvent(eventType string, accountID int, email string) AccountEvent {
	return AccountEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		AccountID:  accountID,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
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
