package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// StatusRoutingKey — ключ маршрутизации событий о смене состояния заявки.
const StatusRoutingKey = "subscription.status"

// GetNotificationQueues возвращает очереди уведомлений сервиса.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.subscription", RoutingKey: StatusRoutingKey},
	}
}
