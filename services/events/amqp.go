// Package eventsvc publishes pipeline events for other systems to consume.
package eventsvc

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/lead"
)

const routingKeyPrefix = "lead.stage_changed."

type StageChanged struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"leadId"`
	LeadName  string    `json:"leadName"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Actor     string    `json:"actor"`
	ActorRole string    `json:"actorRole"`
	Owner     string    `json:"owner"`
	At        time.Time `json:"at"`
}

func newStageChanged(t lead.Transition) StageChanged {
	return StageChanged{
		ID:        t.ID,
		LeadID:    t.LeadID,
		LeadName:  t.LeadName,
		From:      string(t.From),
		To:        string(t.To),
		Actor:     t.Actor,
		ActorRole: t.ActorRole,
		Owner:     t.Owner,
		At:        t.At,
	}
}

// RoutingKey is the key stage changes to stage are published with, eg. `lead.stage_changed.offer`.
func RoutingKey(stage lead.Stage) string {
	return routingKeyPrefix + string(stage)
}

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes stage changes on a topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex // amqp channels are not safe for concurrent publishing
	conn     *amqp.Connection
	ch       channel
	exchange string
}

var _ lead.Observer = (*AMQPPublisher)(nil)

// DialAMQP connects to the broker and declares the durable topic exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to AMQP broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "opening AMQP channel")
	}
	if err = ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "declaring exchange %s", exchange)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) StageChanged(ctx context.Context, t lead.Transition) error {
	body, err := json.Marshal(newStageChanged(t))
	if err != nil {
		return errors.Wrap(err, "encoding stage change")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		p.exchange,
		RoutingKey(t.To),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    t.ID,
			Timestamp:    t.At,
			Type:         "lead.stage_changed",
			Body:         body,
		},
	)
	return errors.Wrap(err, "publishing stage change")
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		if cErr := p.conn.Close(); err == nil {
			err = cErr
		}
	}
	return err
}

// LogPublisher logs stage changes. It is used when no broker is configured.
type LogPublisher struct {
	logger core.Logger
}

var _ lead.Observer = (*LogPublisher)(nil)

func NewLogPublisher(logger core.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) StageChanged(_ context.Context, t lead.Transition) error {
	p.logger.Info("lead stage changed", map[string]interface{}{
		"lead":  t.LeadID,
		"from":  t.From,
		"to":    t.To,
		"actor": t.Actor,
	})
	return nil
}

// New returns the publisher of the configuration and its closer.
func New(conf core.EventsConfig, logger core.Logger) (lead.Observer, func() error, error) {
	if conf.AMQPURL == "" {
		return NewLogPublisher(logger), func() error { return nil }, nil
	}
	pub, err := DialAMQP(conf.AMQPURL, conf.Exchange)
	if err != nil {
		return nil, nil, err
	}
	return pub, pub.Close, nil
}
