package splitynab

type (
	// PubSubMessage is the payload of a Pub/Sub event.
	// See the documentation for more details:
	// https://cloud.google.com/pubsub/docs/reference/rest/v1/PubsubMessage
	PubSubMessage struct {
		Data       []byte                  `json:"data"`
		MessageID  string                  `json:"messageId"`
		Attributes PubSubMessageAttributes `json:"attributes"`
	}

	// PubSubMessageAttributes ...
	PubSubMessageAttributes struct {
		EventType string `json:"eventType"`
	}
)
