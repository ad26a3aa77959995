package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/ansaudit/internal/audit"
)

const (
	subjectTemplateConstant          = "Ansible audit failed on %d/%d projects!"
	senderTemplateConstant           = "%s@%s"
	preprodEnvironmentConstant       = "preprod"
	developmentEnvironmentConstant   = "development"
	hostnameErrorTemplateConstant    = "unable to resolve host name: %w"
	deliveringReportMessageConstant  = "delivering audit report"
	reportDeliveredMessageConstant   = "audit report delivered"
	logFieldRecipientsConstant       = "recipients"
	logFieldSubjectConstant          = "subject"
	logFieldSenderConstant           = "sender"
	missingRecipientsMessageConstant = "notification recipients are not configured"
	missingSMTPHostMessageConstant   = "notification smtp_host is not configured"
	invalidSMTPPortTemplateConstant  = "notification smtp_port %d is out of range"
	maximumSMTPPortConstant          = 65535
)

var (
	// ErrMissingRecipients indicates that email delivery was enabled without recipients.
	ErrMissingRecipients = errors.New(missingRecipientsMessageConstant)
	// ErrMissingSMTPHost indicates that email delivery was enabled without a relay host.
	ErrMissingSMTPHost   = errors.New(missingSMTPHostMessageConstant)
)

// HostnameProvider resolves the local host name used in the sender address.
type HostnameProvider func() (string, error)

// EmailSink emails failed audit reports.
type EmailSink struct {
	configuration    Configuration
	sender           MessageSender
	hostnameProvider HostnameProvider
	logger           *zap.Logger
}

// NewEmailSink validates configuration and constructs an EmailSink. A nil sender selects the SMTP
// relay from configuration and a nil hostname provider selects os.Hostname.
func NewEmailSink(configuration Configuration, sender MessageSender, hostnameProvider HostnameProvider, logger *zap.Logger) (*EmailSink, error) {
	recipients := make([]string, 0, len(configuration.Recipients))
	for _, recipient := range configuration.Recipients {
		if trimmedRecipient := strings.TrimSpace(recipient); len(trimmedRecipient) > 0 {
			recipients = append(recipients, trimmedRecipient)
		}
	}
	if len(recipients) == 0 {
		return nil, ErrMissingRecipients
	}
	configuration.Recipients = recipients

	if sender == nil {
		configuration.SMTPHost = strings.TrimSpace(configuration.SMTPHost)
		if len(configuration.SMTPHost) == 0 {
			return nil, ErrMissingSMTPHost
		}
		if configuration.SMTPPort < 1 || configuration.SMTPPort > maximumSMTPPortConstant {
			return nil, fmt.Errorf(invalidSMTPPortTemplateConstant, configuration.SMTPPort)
		}
		sender = NewSMTPSender(configuration.SMTPHost, configuration.SMTPPort)
	}
	if hostnameProvider == nil {
		hostnameProvider = os.Hostname
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EmailSink{
		configuration:    configuration,
		sender:           sender,
		hostnameProvider: hostnameProvider,
		logger:           logger,
	}, nil
}

// BuildEnvelope renders the email for report. The body is the summary table followed by the
// per project details.
func (sink *EmailSink) BuildEnvelope(report audit.AuditReport) (Envelope, error) {
	senderAddress, senderError := sink.resolveSender()
	if senderError != nil {
		return Envelope{}, senderError
	}

	var body strings.Builder
	body.WriteString(report.SummaryTable)
	body.WriteString("\n")
	body.WriteString(report.Details)

	return Envelope{
		Sender:     senderAddress,
		Recipients: append([]string(nil), sink.configuration.Recipients...),
		Subject:    fmt.Sprintf(subjectTemplateConstant, report.FailedProjects, report.TotalProjects),
		Body:       body.String(),
	}, nil
}

// Deliver implements audit.NotificationSink.
func (sink *EmailSink) Deliver(executionContext context.Context, report audit.AuditReport) error {
	envelope, envelopeError := sink.BuildEnvelope(report)
	if envelopeError != nil {
		return envelopeError
	}

	sink.logger.Info(
		deliveringReportMessageConstant,
		zap.String(logFieldSenderConstant, envelope.Sender),
		zap.Strings(logFieldRecipientsConstant, envelope.Recipients),
		zap.String(logFieldSubjectConstant, envelope.Subject),
	)

	if sendError := sink.sender.Send(executionContext, envelope); sendError != nil {
		return sendError
	}

	sink.logger.Debug(reportDeliveredMessageConstant, zap.String(logFieldSubjectConstant, envelope.Subject))
	return nil
}

func (sink *EmailSink) resolveSender() (string, error) {
	if configuredSender := strings.TrimSpace(sink.configuration.Sender); len(configuredSender) > 0 {
		return configuredSender, nil
	}

	hostname, hostnameError := sink.hostnameProvider()
	if hostnameError != nil {
		return "", fmt.Errorf(hostnameErrorTemplateConstant, hostnameError)
	}

	environment := developmentEnvironmentConstant
	marker := strings.TrimSpace(sink.configuration.PreprodDomainMarker)
	if len(marker) > 0 && strings.Contains(hostname, marker) {
		environment = preprodEnvironmentConstant
	}
	return fmt.Sprintf(senderTemplateConstant, environment, hostname), nil
}
