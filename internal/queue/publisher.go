package queue

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Sink is what handlers publish through. Publish must never block the
// request path and must never surface a delivery failure to the HTTP
// caller; a successful write stands whether or not its event leaves
// the building.
type Sink interface {
	Publish(routingKey string, data any)
}

// retryDelays is the bounded backoff schedule for the background
// delivery worker. After the last delay the message is dropped and
// the failure is logged.
var retryDelays = []time.Duration{
	1 * time.Second,
	5 * time.Second,
	15 * time.Second,
	30 * time.Second,
	60 * time.Second,
}

type outbound struct {
	key  string
	body []byte
}

// Publisher owns one AMQP connection opened at startup and closed at
// shutdown. Publish enqueues onto a buffered channel; a single
// background worker delivers with bounded retries so a broker outage
// slows event delivery, never the write path.
type Publisher struct {
	url      string
	exchange string

	mu   sync.Mutex // guards conn/ch during redial
	conn *amqp.Connection
	ch   *amqp.Channel

	jobs chan outbound
	wg   sync.WaitGroup
}

// NewPublisher dials the broker, declares the durable topic exchange
// and starts the delivery worker. The caller must Close the publisher
// on shutdown.
func NewPublisher(url, exchange string) (*Publisher, error) {
	p := &Publisher{
		url:      url,
		exchange: exchange,
		jobs:     make(chan outbound, 256),
	}
	if err := p.dial(); err != nil {
		return nil, err
	}
	p.wg.Add(1)
	go p.deliverLoop()
	return p, nil
}

func (p *Publisher) dial() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	p.mu.Lock()
	p.conn, p.ch = conn, ch
	p.mu.Unlock()
	return nil
}

// Publish wraps data in an envelope and hands it to the delivery
// worker. When the buffer is full the event is dropped and logged;
// callers are never blocked or failed.
func (p *Publisher) Publish(routingKey string, data any) {
	body, err := json.Marshal(NewEnvelope(data))
	if err != nil {
		log.Printf("queue: marshal event %s failed: %v", routingKey, err)
		return
	}
	select {
	case p.jobs <- outbound{key: routingKey, body: body}:
	default:
		log.Printf("queue: outbound buffer full, dropping %s", routingKey)
	}
}

func (p *Publisher) deliverLoop() {
	defer p.wg.Done()
	for j := range p.jobs {
		p.deliver(j)
	}
}

// deliver attempts one message with the bounded retry schedule,
// redialing a broken connection between attempts.
func (p *Publisher) deliver(j outbound) {
	err := p.publishOnce(j)
	if err == nil {
		return
	}
	log.Printf("queue: publish %s failed: %v", j.key, err)
	for _, delay := range retryDelays {
		time.Sleep(delay)
		if err := p.dial(); err != nil {
			log.Printf("queue: redial failed: %v", err)
			continue
		}
		err = p.publishOnce(j)
		if err == nil {
			log.Printf("queue: publish %s succeeded after retry", j.key)
			return
		}
		log.Printf("queue: publish %s retry failed: %v", j.key, err)
	}
	log.Printf("queue: giving up on %s after %d retries", j.key, len(retryDelays))
}

func (p *Publisher) publishOnce(j outbound) error {
	p.mu.Lock()
	ch := p.ch
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return ch.PublishWithContext(ctx,
		p.exchange,
		j.key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         j.body,
		},
	)
}

// Close drains the outbound buffer, stops the worker and closes the
// connection.
func (p *Publisher) Close() {
	close(p.jobs)
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
