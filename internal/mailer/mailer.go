// Package mailer relays composed messages to an SMTP server. Delivery is
// decoupled from callers: messages are queued and sent by a background
// worker, and a failed send is logged with its full payload for manual
// resend rather than surfaced or retried.
package mailer

import (
	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"
)

// Message is a single plain-text outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers one message with a single attempt.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender wraps an authenticated SMTP dialer configured once at startup.
type SMTPSender struct {
	dialer *gomail.Dialer
}

// NewSMTPSender creates a sender for the given SMTP relay and credentials.
func NewSMTPSender(host string, port int, username, password string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, username, password)}
}

// Send hands the message to the SMTP server. A nil error means the relay
// accepted the message, not that it reached the recipient's inbox.
func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return s.dialer.DialAndSend(m)
}

// Relay consumes queued messages out of band so HTTP handlers never wait on
// delivery.
type Relay struct {
	sender Sender
	queue  chan Message
	done   chan struct{}
	logger zerolog.Logger
}

const queueCapacity = 64

// NewRelay wraps a sender with a fire-and-forget queue. Call Start before
// enqueuing and Close during shutdown.
func NewRelay(sender Sender, logger zerolog.Logger) *Relay {
	return &Relay{
		sender: sender,
		queue:  make(chan Message, queueCapacity),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start launches the delivery worker.
func (r *Relay) Start() {
	go func() {
		defer close(r.done)
		for msg := range r.queue {
			if err := r.sender.Send(msg); err != nil {
				// Keep the payload in the log so the message can be
				// resent by hand. No retry.
				r.logger.Error().Err(err).
					Str("from", msg.From).
					Str("to", msg.To).
					Str("subject", msg.Subject).
					Str("body", msg.Body).
					Msg("failed to send message")
				continue
			}
			r.logger.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("message processed")
		}
	}()
}

// Enqueue hands a message to the worker without waiting for delivery.
// When the queue is full the message is dropped and logged like a failed
// send.
func (r *Relay) Enqueue(msg Message) {
	select {
	case r.queue <- msg:
	default:
		r.logger.Error().
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Str("body", msg.Body).
			Msg("mail queue full, dropping message")
	}
}

// Close stops accepting messages and waits for queued sends to drain.
func (r *Relay) Close() {
	close(r.queue)
	<-r.done
}
