package notify_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/ansaudit/internal/audit"
	"github.com/temirov/ansaudit/internal/notify"
)

const (
	notifySubtestTemplateConstant       = "%d_%s"
	notifyRecipientConstant             = "ops@example.com"
	notifyConfiguredSenderConstant      = "audit@example.com"
	notifyPreprodHostnameConstant       = "runner01.preprod.domain.com"
	notifyDevelopmentHostnameConstant   = "laptop.dev.example.com"
	notifyHostnameFailureConstant       = "no host name"
	notifySendFailureConstant           = "relay unavailable"
	notifyFailingProjectConstant        = "/srv/ansible/webservers"
	notifyPassingProjectConstant        = "/srv/ansible/databases"
	notifyViolationConstant             = "Project /srv/ansible/webservers is not tracked in GIT!"
	notifyExpectedSubjectConstant       = "Ansible audit failed on 1/2 projects!"
	notifyPreprodCaseNameConstant       = "preprod_host"
	notifyDevelopmentCaseNameConstant   = "development_host"
	notifyConfiguredSenderCaseConstant  = "configured_sender"
	notifyExpectedPreprodSenderConstant = "preprod@runner01.preprod.domain.com"
	notifyExpectedDevSenderConstant     = "development@laptop.dev.example.com"
)

type recordingSender struct {
	envelopes []notify.Envelope
	failure   error
}

func (sender *recordingSender) Send(executionContext context.Context, envelope notify.Envelope) error {
	sender.envelopes = append(sender.envelopes, envelope)
	return sender.failure
}

func failingReport() audit.AuditReport {
	return audit.BuildReport([]audit.ProjectResult{
		{Project: notifyFailingProjectConstant, Violations: []string{notifyViolationConstant}},
		{Project: notifyPassingProjectConstant},
	})
}

func fixedHostname(hostname string) notify.HostnameProvider {
	return func() (string, error) { return hostname, nil }
}

func enabledConfiguration() notify.Configuration {
	configuration := notify.DefaultConfiguration()
	configuration.Enabled = true
	configuration.Recipients = []string{notifyRecipientConstant}
	return configuration
}

func TestEmailSinkBuildEnvelopeResolvesSender(testInstance *testing.T) {
	testCases := []struct {
		name           string
		hostname       string
		sender         string
		expectedSender string
	}{
		{name: notifyPreprodCaseNameConstant, hostname: notifyPreprodHostnameConstant, expectedSender: notifyExpectedPreprodSenderConstant},
		{name: notifyDevelopmentCaseNameConstant, hostname: notifyDevelopmentHostnameConstant, expectedSender: notifyExpectedDevSenderConstant},
		{name: notifyConfiguredSenderCaseConstant, hostname: notifyPreprodHostnameConstant, sender: notifyConfiguredSenderConstant, expectedSender: notifyConfiguredSenderConstant},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(notifySubtestTemplateConstant, testCaseIndex, testCase.name), func(subTest *testing.T) {
			configuration := enabledConfiguration()
			configuration.Sender = testCase.sender

			sink, sinkError := notify.NewEmailSink(configuration, &recordingSender{}, fixedHostname(testCase.hostname), zap.NewNop())
			require.NoError(subTest, sinkError)

			report := failingReport()
			envelope, envelopeError := sink.BuildEnvelope(report)
			require.NoError(subTest, envelopeError)
			require.Equal(subTest, testCase.expectedSender, envelope.Sender)
			require.Equal(subTest, []string{notifyRecipientConstant}, envelope.Recipients)
			require.Equal(subTest, notifyExpectedSubjectConstant, envelope.Subject)
			require.Equal(subTest, report.SummaryTable+"\n"+report.Details, envelope.Body)
			require.Contains(subTest, envelope.Body, notifyViolationConstant)
		})
	}
}

func TestEmailSinkDeliverSendsOneEnvelope(testInstance *testing.T) {
	sender := &recordingSender{}
	sink, sinkError := notify.NewEmailSink(enabledConfiguration(), sender, fixedHostname(notifyDevelopmentHostnameConstant), nil)
	require.NoError(testInstance, sinkError)

	require.NoError(testInstance, sink.Deliver(context.Background(), failingReport()))
	require.Len(testInstance, sender.envelopes, 1)
	require.Equal(testInstance, notifyExpectedSubjectConstant, sender.envelopes[0].Subject)
}

func TestEmailSinkDeliverPropagatesFailures(testInstance *testing.T) {
	sendFailure := errors.New(notifySendFailureConstant)
	sink, sinkError := notify.NewEmailSink(enabledConfiguration(), &recordingSender{failure: sendFailure}, fixedHostname(notifyDevelopmentHostnameConstant), nil)
	require.NoError(testInstance, sinkError)
	require.ErrorIs(testInstance, sink.Deliver(context.Background(), failingReport()), sendFailure)

	hostnameFailure := errors.New(notifyHostnameFailureConstant)
	sender := &recordingSender{}
	failingHostSink, failingHostSinkError := notify.NewEmailSink(enabledConfiguration(), sender, func() (string, error) { return "", hostnameFailure }, nil)
	require.NoError(testInstance, failingHostSinkError)
	require.ErrorIs(testInstance, failingHostSink.Deliver(context.Background(), failingReport()), hostnameFailure)
	require.Empty(testInstance, sender.envelopes)
}

func TestNewEmailSinkValidatesConfiguration(testInstance *testing.T) {
	withoutRecipients := notify.DefaultConfiguration()
	withoutRecipients.Recipients = []string{"  "}
	_, recipientsError := notify.NewEmailSink(withoutRecipients, &recordingSender{}, nil, nil)
	require.ErrorIs(testInstance, recipientsError, notify.ErrMissingRecipients)

	withoutHost := enabledConfiguration()
	withoutHost.SMTPHost = " "
	_, hostError := notify.NewEmailSink(withoutHost, nil, nil, nil)
	require.ErrorIs(testInstance, hostError, notify.ErrMissingSMTPHost)

	invalidPort := enabledConfiguration()
	invalidPort.SMTPPort = 0
	_, portError := notify.NewEmailSink(invalidPort, nil, nil, nil)
	require.Error(testInstance, portError)

	smtpSink, smtpSinkError := notify.NewEmailSink(enabledConfiguration(), nil, nil, nil)
	require.NoError(testInstance, smtpSinkError)
	require.NotNil(testInstance, smtpSink)
}

func TestDefaultConfigurationValues(testInstance *testing.T) {
	values := notify.DefaultConfigurationValues("notification")
	require.Equal(testInstance, "mailhost.domain.com", values["notification.smtp_host"])
	require.Equal(testInstance, 25, values["notification.smtp_port"])
	require.Equal(testInstance, false, values["notification.enabled"])
	require.Equal(testInstance, "preprod.domain.com", values["notification.preprod_domain_marker"])
}
