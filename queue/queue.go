// Package queue wires the service to RabbitMQ and defines the wire format of
// ranking lifecycle notifications.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/streadway/amqp"
)

// RankingEventsQueue is the queue the API publishes to and the consumer reads from.
const RankingEventsQueue = "ranking-events"

// EventRankingCreated is the only event type the consumer currently reacts to.
const EventRankingCreated = "ranking_created"

// RankingEvent is the notification body: which ranking and what happened to it.
type RankingEvent struct {
	RankingID string `json:"ranking_id"`
	EventType string `json:"event_type"`
}

// Envelope is the transport wrapper around the event. Data carries the
// base64-encoded event JSON; encoding/json does the base64 leg on []byte fields.
type Envelope struct {
	Data []byte `json:"data"`
}

// EncodeEvent wraps ev in the transport envelope.
func EncodeEvent(ev RankingEvent) ([]byte, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Data: body})
}

// DecodeEvent unwraps a transport message back into the event.
func DecodeEvent(body []byte) (RankingEvent, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return RankingEvent{}, fmt.Errorf("invalid envelope: %w", err)
	}
	if len(env.Data) == 0 {
		return RankingEvent{}, errors.New("envelope has no data")
	}
	var ev RankingEvent
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		return RankingEvent{}, fmt.Errorf("invalid event payload: %w", err)
	}
	return ev, nil
}

// Setup dials RabbitMQ, opens a channel and declares the ranking events queue.
func Setup(url string) (*amqp.Channel, *amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if _, err := ch.QueueDeclare(RankingEventsQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to declare %s queue: %w", RankingEventsQueue, err)
	}

	return ch, conn, nil
}

// Close tears down the channel and connection, collecting every error.
func Close(ch *amqp.Channel, conn *amqp.Connection) error {
	var errs []error

	if err := ch.Cancel("", false); err != nil {
		errs = append(errs, fmt.Errorf("error cancelling RabbitMQ consumption: %w", err))
	}
	if err := ch.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing RabbitMQ channel: %w", err))
	}
	if err := conn.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing RabbitMQ connection: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors occurred during RabbitMQ shutdown: %v", errs)
	}
	return nil
}

// Publisher emits ranking lifecycle notifications.
type Publisher interface {
	RankingCreated(rankingID string) error
}

// AMQPPublisher publishes notifications to the ranking events queue.
type AMQPPublisher struct {
	ch *amqp.Channel
}

func NewAMQPPublisher(ch *amqp.Channel) *AMQPPublisher {
	return &AMQPPublisher{ch: ch}
}

func (p *AMQPPublisher) RankingCreated(rankingID string) error {
	body, err := EncodeEvent(RankingEvent{RankingID: rankingID, EventType: EventRankingCreated})
	if err != nil {
		return fmt.Errorf("failed to encode ranking_created event: %w", err)
	}
	err = p.ch.Publish("", RankingEventsQueue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish ranking_created event: %w", err)
	}
	return nil
}
