package email

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"ripple-social/internal/config"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single message.
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(cfg *config.SMTPConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

func (m *SMTPMailer) Send(msg Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", msg.To, err)
	}
	return nil
}

// Dispatcher queues email delivery off the notification path. Sends are
// best-effort: failures are logged and never surface to the caller.
type Dispatcher struct {
	mailer Mailer
	queue  chan Message
}

// NewDispatcher starts the delivery worker. A nil mailer turns every send
// into a logged no-op, which is how a disabled SMTP block behaves.
func NewDispatcher(mailer Mailer) *Dispatcher {
	d := &Dispatcher{
		mailer: mailer,
		queue:  make(chan Message, 256),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	for msg := range d.queue {
		if d.mailer == nil {
			log.Printf("Email delivery disabled, dropping message to %s", msg.To)
			continue
		}
		if err := d.mailer.Send(msg); err != nil {
			log.Printf("Email delivery failed: %v", err)
		}
	}
}

// Enqueue hands a message to the worker without blocking. A full queue
// drops the message.
func (d *Dispatcher) Enqueue(msg Message) {
	select {
	case d.queue <- msg:
	default:
		log.Printf("Email queue full, dropping message to %s", msg.To)
	}
}

// Close stops the worker after the queue drains.
func (d *Dispatcher) Close() {
	close(d.queue)
}
