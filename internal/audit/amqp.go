package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"dealership_crm_backend/platform/config"
	"dealership_crm_backend/platform/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RoutingKeyLeadsDeactivated is the routing key for deactivation entries.
const RoutingKeyLeadsDeactivated = "leads.deactivated"

// Publisher is the part of *amqp.Channel the sink uses.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSink publishes entries as persistent JSON messages to a topic exchange.
type AMQPSink struct {
	mu       sync.Mutex
	pub      Publisher
	exchange string
}

func NewAMQPSink(pub Publisher, exchange string) *AMQPSink {
	return &AMQPSink{pub: pub, exchange: exchange}
}

func (s *AMQPSink) Record(ctx context.Context, entry Entry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}

	// amqp channels are not safe for concurrent publishing.
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.pub.PublishWithContext(ctx, s.exchange, RoutingKeyLeadsDeactivated, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         entry.Event,
		Timestamp:    entry.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish audit entry: %w", err)
	}
	return nil
}

// Broker owns the connection behind an AMQPSink.
type Broker struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// DialBroker connects and declares the durable topic exchange.
func DialBroker(url, exchange string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &Broker{Conn: conn, Ch: ch}, nil
}

func (b *Broker) Close() error {
	if b == nil {
		return nil
	}
	_ = b.Ch.Close()
	return b.Conn.Close()
}

// NewSink returns a LogSink, fanned out to the broker when one is
// configured. The returned Broker is nil without a broker and is safe to
// Close either way.
func NewSink(cfg config.AuditConfig, log *logger.Logger) (Sink, *Broker, error) {
	logSink := NewLogSink(log)
	if !cfg.IsAuditBrokerEnabled() {
		return logSink, nil, nil
	}

	broker, err := DialBroker(cfg.GetAMQPURL(), cfg.GetAuditExchange())
	if err != nil {
		return nil, nil, err
	}
	return Fanout{logSink, NewAMQPSink(broker.Ch, cfg.GetAuditExchange())}, broker, nil
}
