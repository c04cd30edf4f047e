// Package notify delivers user notifications over SMTP, through a RabbitMQ
// queue, or to the application log.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/core/ports"
)

// Drivers accepted by New.
const (
	DriverLog  = "log"
	DriverSMTP = "smtp"
	DriverAMQP = "amqp"
)

// Config selects and configures a delivery driver.
type Config struct {
	Driver string
	From   string
	SMTP   SMTPConfig
	AMQP   AMQPConfig
}

// Sender is a Notifier that holds transport resources.
type Sender interface {
	ports.Notifier
	Close() error
}

// New builds the Sender for cfg.Driver. An empty driver means log.
func New(cfg Config, log zerolog.Logger) (Sender, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverLog:
		return NewLogNotifier(log), nil
	case DriverSMTP:
		return NewSMTPNotifier(cfg.SMTP, cfg.From), nil
	case DriverAMQP:
		return DialAMQP(cfg.AMQP)
	default:
		return nil, fmt.Errorf("notify: unknown driver %q", cfg.Driver)
	}
}

// LogNotifier writes messages to the log instead of delivering them.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Send logs the envelope at info. Bodies carry credentials such as temporary
// passwords and verification tokens, so they are only logged at debug.
func (n *LogNotifier) Send(_ context.Context, msg ports.Message) error {
	n.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("notification")
	n.log.Debug().
		Str("to", msg.To).
		Str("body", msg.Body).
		Msg("notification body")
	return nil
}

func (n *LogNotifier) Close() error { return nil }
