// Package events publishes order lifecycle events to the fulfillment queue
// and to connected websocket rooms. Both paths are best-effort: a publish
// failure is logged, never surfaced to the request that placed the order.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/bazario-dev/marketplace-api/models"
)

// Emitter is the websocket-room side of the fan-out.
type Emitter interface {
	Emit(room, event string, payload interface{})
}

// Publisher sends persistent JSON messages to the order-events queue.
type Publisher struct {
	pool      *ChannelPool
	queueName string
}

func NewPublisher(pool *ChannelPool, queueName string) *Publisher {
	return &Publisher{pool: pool, queueName: queueName}
}

func (p *Publisher) Publish(ctx context.Context, payload interface{}) error {
	ch, err := p.pool.Get()
	if err != nil {
		return fmt.Errorf("failed to get channel from pool: %w", err)
	}
	defer p.pool.Put(ch)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Fanout implements the order service's Events hook: queue for fulfillment,
// rooms for the buyer and every shop with items in the order.
type Fanout struct {
	publisher *Publisher // nil disables the queue path
	hub       Emitter
	log       *logrus.Logger
}

func NewFanout(publisher *Publisher, hub Emitter, log *logrus.Logger) *Fanout {
	return &Fanout{publisher: publisher, hub: hub, log: log}
}

type orderCreatedEvent struct {
	OrderID   uint      `json:"order_id"`
	OrderRef  string    `json:"order_ref"`
	UserID    string    `json:"user_id"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *Fanout) OrderCreated(ctx context.Context, order *models.Order) {
	if f.publisher != nil {
		event := orderCreatedEvent{
			OrderID:   order.ID,
			OrderRef:  order.OrderRef,
			UserID:    order.UserID,
			Total:     order.TotalAmount,
			CreatedAt: order.CreatedAt,
		}
		if err := f.publisher.Publish(ctx, event); err != nil {
			f.log.WithError(err).WithField("order_id", order.ID).Warn("order event publish failed")
		}
	}

	if f.hub == nil {
		return
	}
	f.hub.Emit("user:"+order.UserID, "order_created", order)
	for _, shopID := range orderShopIDs(order) {
		f.hub.Emit("shop:"+strconv.FormatUint(uint64(shopID), 10), "order_created", order)
	}
}

func orderShopIDs(order *models.Order) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, item := range order.Items {
		if !seen[item.ShopID] {
			seen[item.ShopID] = true
			ids = append(ids, item.ShopID)
		}
	}
	return ids
}
