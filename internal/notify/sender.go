package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

const (
	clientCreationErrorTemplateConstant = "unable to create SMTP client for %s:%d: %w"
	senderAddressErrorTemplateConstant  = "invalid sender address %q: %w"
	recipientErrorTemplateConstant      = "invalid recipient addresses: %w"
	deliveryErrorTemplateConstant       = "unable to send report through %s:%d: %w"
)

// Envelope is a fully resolved plain text email.
type Envelope struct {
	Sender     string
	Recipients []string
	Subject    string
	Body       string
}

// MessageSender transmits envelopes.
type MessageSender interface {
	Send(executionContext context.Context, envelope Envelope) error
}

// SMTPSender delivers envelopes through a plain SMTP relay.
type SMTPSender struct {
	host string
	port int
}

// NewSMTPSender constructs an SMTPSender for host:port.
func NewSMTPSender(host string, port int) *SMTPSender {
	return &SMTPSender{host: host, port: port}
}

// Send implements MessageSender. The relay is contacted without TLS or authentication.
func (sender *SMTPSender) Send(executionContext context.Context, envelope Envelope) error {
	message := mail.NewMsg()
	if fromError := message.From(envelope.Sender); fromError != nil {
		return fmt.Errorf(senderAddressErrorTemplateConstant, envelope.Sender, fromError)
	}
	if toError := message.To(envelope.Recipients...); toError != nil {
		return fmt.Errorf(recipientErrorTemplateConstant, toError)
	}
	message.Subject(envelope.Subject)
	message.SetDate()
	message.SetBodyString(mail.TypeTextPlain, envelope.Body)

	client, clientError := mail.NewClient(
		sender.host,
		mail.WithPort(sender.port),
		mail.WithTLSPolicy(mail.NoTLS),
	)
	if clientError != nil {
		return fmt.Errorf(clientCreationErrorTemplateConstant, sender.host, sender.port, clientError)
	}

	if sendError := client.DialAndSendWithContext(executionContext, message); sendError != nil {
		return fmt.Errorf(deliveryErrorTemplateConstant, sender.host, sender.port, sendError)
	}
	return nil
}
