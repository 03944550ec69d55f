package rabbitmq

// QueueConfig описывает очередь, привязываемую к exchange событий подписок.
// RoutingKey может содержать шаблон topic-exchange, например "subscription.*".
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetSubscriptionQueues возвращает очереди, в которые попадают события подписок.
func GetSubscriptionQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "subscriptions.audit", RoutingKey: "subscription.*"},
	}
}
