package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// RoutingKeyExpiring и RoutingKeyExpired — ключи маршрутизации событий лицензий.
const (
	RoutingKeyExpiring = "expiring"
	RoutingKeyExpired  = "expired"
)

// GetLicenseQueues возвращает очереди уведомлений об истечении лицензий.
func GetLicenseQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "licenses.expiring", RoutingKey: RoutingKeyExpiring},
		{QueueName: "licenses.expired", RoutingKey: RoutingKeyExpired},
	}
}
