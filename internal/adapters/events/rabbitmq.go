package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/arveloz/erpforms/internal/domain"
)

// Publisher announces order events on a durable fanout exchange so
// downstream ERP integrations can react to created orders. The whole
// adapter is optional: when no broker URL is configured the app wires
// a nil publisher and no events are emitted.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

type orderCreatedEvent struct {
	Event      string    `json:"event"`
	OrderID    string    `json:"order_id"`
	Number     string    `json:"number"`
	CustomerID string    `json:"customer_id"`
	Total      float64   `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}

func (p *Publisher) OrderCreated(ctx context.Context, o *domain.Order) error {
	body, err := json.Marshal(orderCreatedEvent{
		Event:      "order.created",
		OrderID:    o.ID.String(),
		Number:     o.Number,
		CustomerID: o.CustomerID.String(),
		Total:      o.Total,
		CreatedAt:  o.CreatedAt,
	})
	if err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		"", // fanout ignores the routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
