package ports

const AnyTopic = "*"
const UnspecifiedTopic = ""

type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// Publisher is anything events can be pushed to.
type Publisher interface {
	Publish(topic string, message string) error
}

// PubSub defines the methods of a pubsub service whose subscriptions are
// persisted in an internal store.
type PubSub interface {
	Publisher
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes some client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed for
	// a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Close should be used to gracefully close the connection with the store.
	Close() error
}
