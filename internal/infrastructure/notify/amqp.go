package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sould/property-match/internal/core/ports"
)

// DefaultQueue holds outgoing notifications until the mailer delivers them.
const DefaultQueue = "notifications.outgoing"

// ErrNacked is returned when the broker refuses to take a message.
var ErrNacked = errors.New("amqp: message nacked by broker")

type AMQPConfig struct {
	URL   string
	Queue string
}

func (c AMQPConfig) queue() string {
	if c.Queue == "" {
		return DefaultQueue
	}
	return c.Queue
}

// publisher is one broker session in confirm mode.
type publisher interface {
	// publish returns after the broker confirmed the message.
	publish(ctx context.Context, key string, msg amqp.Publishing) error
	closed() bool
	Close() error
}

// AMQPNotifier publishes notifications as persistent JSON messages. Send
// returns once the broker confirmed the message; delivery happens in the
// mailer process. A session lost to a broker restart is redialed on the next
// Send.
type AMQPNotifier struct {
	dial  func() (publisher, error)
	queue string

	mu  sync.Mutex
	pub publisher
}

// DialAMQP connects to the broker and declares the durable queue. The first
// session is opened eagerly so a bad URL fails at startup.
func DialAMQP(cfg AMQPConfig) (*AMQPNotifier, error) {
	n := newAMQPNotifier(cfg.queue(), func() (publisher, error) {
		s, err := openSession(cfg.URL, cfg.queue())
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	if _, err := n.session(); err != nil {
		return nil, err
	}
	return n, nil
}

func newAMQPNotifier(queue string, dial func() (publisher, error)) *AMQPNotifier {
	return &AMQPNotifier{dial: dial, queue: queue}
}

func (n *AMQPNotifier) Send(ctx context.Context, msg ports.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	// One redial per Send; a broker that is still down surfaces the error.
	for attempt := 0; ; attempt++ {
		p, err := n.session()
		if err != nil {
			return err
		}
		err = p.publish(ctx, n.queue, pub)
		if err == nil {
			return nil
		}
		if attempt > 0 || !(errors.Is(err, amqp.ErrClosed) || p.closed()) {
			return fmt.Errorf("amqp publish: %w", err)
		}
		n.discard(p)
	}
}

// session returns the live session, dialing a new one if there is none.
func (n *AMQPNotifier) session() (publisher, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.pub != nil && !n.pub.closed() {
		return n.pub, nil
	}
	if n.pub != nil {
		_ = n.pub.Close()
		n.pub = nil
	}
	p, err := n.dial()
	if err != nil {
		return nil, err
	}
	n.pub = p
	return p, nil
}

// discard drops p if it is still the current session.
func (n *AMQPNotifier) discard(p publisher) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.pub == p {
		_ = p.Close()
		n.pub = nil
	}
}

func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.pub == nil {
		return nil
	}
	err := n.pub.Close()
	n.pub = nil
	return err
}

type amqpSession struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func openSession(url, queue string) (*amqpSession, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp confirm mode: %w", err)
	}
	return &amqpSession{conn: conn, ch: ch}, nil
}

func (s *amqpSession) publish(ctx context.Context, key string, msg amqp.Publishing) error {
	confirm, err := s.ch.PublishWithDeferredConfirmWithContext(ctx, "", key, false, false, msg)
	if err != nil {
		return err
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return ErrNacked
	}
	return nil
}

func (s *amqpSession) closed() bool {
	return s.conn.IsClosed() || s.ch.IsClosed()
}

func (s *amqpSession) Close() error {
	if s.conn.IsClosed() {
		return nil
	}
	return s.conn.Close()
}
