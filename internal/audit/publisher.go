package audit

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// queueName is the durable queue audit entries land in.
const queueName = "admin.audit"

// Publisher writes events to RabbitMQ. A Publisher with an empty URL (or a
// nil Publisher) discards events silently, which is how auditing is disabled.
type Publisher struct {
	url string
}

// NewPublisher builds a publisher for the given AMQP URL. Empty means
// disabled.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// Enabled reports whether events will actually be sent anywhere.
func (p *Publisher) Enabled() bool {
	return p != nil && p.url != ""
}

// Publish sends one event. It dials per call, declares the queue
// idempotently and marks the message persistent so entries survive broker
// restarts. Any error is logged and returned; callers are expected to
// ignore it.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	if !p.Enabled() {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("audit: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("audit: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		log.Printf("audit: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("audit: marshal event failed: %v", err)
		return err
	}

	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	); err != nil {
		log.Printf("audit: publish failed: %v", err)
		return err
	}
	return nil
}
