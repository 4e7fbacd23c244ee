package workers

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/emiilyxiia/microservices-3/queue"
	"github.com/emiilyxiia/microservices-3/store"
)

// Outcome classifies how a notification was consumed, so the delivery loop (or a
// caller wanting to escalate) can decide between ack and dead-letter.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeMissing   Outcome = "missing"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// RankingConsumer reacts to ranking lifecycle notifications by re-reading the row
// from the store. It talks to the store directly, never the service, and treats
// every failure as terminal for the current message: malformed or foreign
// messages are acked away, store failures are nacked without requeue so a
// dead-letter route can escalate.
type RankingConsumer struct {
	store store.RankingStore
	log   *logrus.Logger
}

func NewRankingConsumer(st store.RankingStore, log *logrus.Logger) *RankingConsumer {
	return &RankingConsumer{store: st, log: log}
}

// Start consumes the ranking events queue until ctx is cancelled.
func (rc *RankingConsumer) Start(ctx context.Context, ch *amqp.Channel) error {
	msgs, err := ch.Consume(queue.RankingEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming ranking events: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if _, err := rc.Handle(msg.Body); err != nil {
					rc.log.WithError(err).Error("ranking event processing failed")
					_ = msg.Nack(false, false)
					continue
				}
				_ = msg.Ack(false)
			}
		}
	}()

	rc.log.Info("ranking events consumer started")
	return nil
}

// Handle processes one notification body and reports how it was consumed. Only
// store failures return an error; everything else is a logged no-op.
func (rc *RankingConsumer) Handle(body []byte) (Outcome, error) {
	ev, err := queue.DecodeEvent(body)
	if err != nil {
		rc.log.WithError(err).Warn("discarding malformed ranking event")
		return OutcomeSkipped, nil
	}

	if ev.EventType != queue.EventRankingCreated {
		rc.log.WithField("event_type", ev.EventType).Debug("ignoring ranking event")
		return OutcomeSkipped, nil
	}

	ranking, err := rc.store.Get(ev.RankingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rc.log.WithField("ranking_id", ev.RankingID).Warn("ranking not found for created event")
			return OutcomeMissing, nil
		}
		return OutcomeFailed, fmt.Errorf("failed to read ranking %s: %w", ev.RankingID, err)
	}

	rc.log.WithFields(logrus.Fields{
		"ranking_id": ranking.ID,
		"user_id":    ranking.UserID,
		"items":      len(ranking.Items),
	}).Info("processed ranking created event")
	return OutcomeProcessed, nil
}
