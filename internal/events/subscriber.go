package events

// Subscriber receives workspace events from the event bus.
type Subscriber interface {
	// Subscribe delivers raw event payloads for the topic on the returned
	// channel. The cancel function unsubscribes and closes the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}
