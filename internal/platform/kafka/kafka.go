package kafka

import (
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// DefaultOrderTopic carries every order lifecycle event.
const DefaultOrderTopic = "marketplace.orders"

// NewWriter builds a synchronous writer that hashes message keys to
// partitions, so all events of one order stay in publication order.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	if strings.TrimSpace(topic) == "" {
		topic = DefaultOrderTopic
	}
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
	}
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
