package rabbitmq

import (
	"github.com/streadway/amqp"
)

// Publisher отправляет события учётных записей в обменник.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает издателя поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// AccountRegistered публикует событие о регистрации учётной записи.
func (p *Publisher) AccountRegistered(accountID int, email string) error {
	event := NewAccountEvent(RoutingKeyRegistered, accountID, email)
	return PublishMessage(p.ch, ExchangeName, RoutingKeyRegistered, event)
}

// AccountDeleted публикует событие об удалении учётной записи.
func (p *Publisher) AccountDeleted(accountID int, email string) error {
	event := NewAccountEvent(RoutingKeyDeleted, accountID, email)
	return PublishMessage(p.ch, ExchangeName, RoutingKeyDeleted, event)
}
