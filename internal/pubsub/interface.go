package pubsub

type PubSubClient interface {
	SendMessage(topic EventType, data any) error
	// SendOrderedMessage publishes with an ordering key. Messages sharing a
	// key reach subscribers with message ordering enabled in publish order.
	SendOrderedMessage(topic EventType, orderingKey string, data any) error
	ProcessMessage(data []byte, returnValue any) error
	Close()
}
