package rabbitmq

// ExchangeName обменник для событий учётных записей.
const ExchangeName = "accounts"

// QueueConfig описывает очередь и ключ маршрутизации для привязки.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetAccountQueues возвращает очереди событий жизненного цикла.
func GetAccountQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "accounts.lifecycle", RoutingKey: RoutingKeyRegistered},
		{QueueName: "accounts.lifecycle", RoutingKey: RoutingKeyDeleted},
	}
}
