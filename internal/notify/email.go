package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/ahmethakanbesel/price-tracker/internal/product"
)

type EmailConfig struct {
	Host      string
	Port      string
	Username  string
	Password  string
	Sender    string
	Recipient string
}

// Configured reports whether every field needed to deliver mail is set.
func (c EmailConfig) Configured() bool {
	return c.Host != "" && c.Port != "" && c.Username != "" &&
		c.Password != "" && c.Sender != "" && c.Recipient != ""
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier delivers alerts through an external SMTP relay.
type EmailNotifier struct {
	cfg      EmailConfig
	sendMail sendMailFunc
	now      func() time.Time
}

func NewEmailNotifier(cfg EmailConfig, opts ...EmailOption) *EmailNotifier {
	n := &EmailNotifier{
		cfg:      cfg,
		sendMail: smtp.SendMail,
		now:      time.Now,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

type EmailOption func(*EmailNotifier)

// WithSendMail replaces the SMTP send function, used by tests.
func WithSendMail(fn sendMailFunc) EmailOption {
	return func(n *EmailNotifier) { n.sendMail = fn }
}

func WithClock(now func() time.Time) EmailOption {
	return func(n *EmailNotifier) { n.now = now }
}

func (n *EmailNotifier) Notify(ctx context.Context, p product.Product, currentPrice float64) error {
	if err := ctx.Err(); err != nil {
		return &Error{Transport: "email", Err: err}
	}
	if !n.cfg.Configured() {
		return &Error{Transport: "email", Err: fmt.Errorf("smtp settings incomplete")}
	}

	msg := n.buildMessage(p, currentPrice)
	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)

	if err := n.sendMail(addr, auth, n.cfg.Sender, []string{n.cfg.Recipient}, msg); err != nil {
		return &Error{Transport: "email", Err: err}
	}
	return nil
}

func (n *EmailNotifier) buildMessage(p product.Product, currentPrice float64) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.cfg.Sender)
	fmt.Fprintf(&b, "To: %s\r\n", n.cfg.Recipient)
	fmt.Fprintf(&b, "Subject: Price Drop Alert: %s\r\n", p.Name)
	b.WriteString("\r\n")
	b.WriteString("Price drop detected for one of your tracked products.\r\n\r\n")
	fmt.Fprintf(&b, "Product: %s\r\n", p.Name)
	fmt.Fprintf(&b, "URL: %s\r\n", p.URL)
	fmt.Fprintf(&b, "Current price: %.2f\r\n", currentPrice)
	fmt.Fprintf(&b, "Target price: %.2f\r\n", p.TargetPrice)
	fmt.Fprintf(&b, "Time: %s\r\n", n.now().UTC().Format("2006-01-02 15:04:05 UTC"))
	return []byte(b.String())
}
