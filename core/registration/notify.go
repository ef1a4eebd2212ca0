package registration

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
)

const (
	credentialsTemplate = "credentials"
	credentialsSubject  = "Application Approved - Login Details"
)

type credentialsData struct {
	Name     string
	UniqueID string
	Password string
}

// Notifier emails login credentials to approved applicants.
type Notifier struct {
	mailSvc core.EmailService
	timeout time.Duration
	logger  core.Logger
	// dispatch runs f off the request path
	dispatch func(f func())
}

func NewNotifier(mailSvc core.EmailService, timeout time.Duration, logger core.Logger) *Notifier {
	return &Notifier{
		mailSvc:  mailSvc,
		timeout:  timeout,
		logger:   logger,
		dispatch: func(f func()) { go f() },
	}
}

// NewNotifierMock returns a Notifier that sends synchronously.
func NewNotifierMock(mailSvc core.EmailService, logger core.Logger) *Notifier {
	n := NewNotifier(mailSvc, time.Second, logger)
	n.dispatch = func(f func()) { f() }
	return n
}

// SendCredentials renders and sends the credentials email; it makes a single attempt.
func (n *Notifier) SendCredentials(ctx context.Context, toEmail, applicantName, uniqueID, password string) error {
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: applicantName, Address: toEmail}},
		Subject:      credentialsSubject,
		TemplateName: credentialsTemplate,
		TemplateData: credentialsData{
			Name:     applicantName,
			UniqueID: uniqueID,
			Password: password,
		},
	}
	if err := msg.Render(); err != nil {
		return errors.Wrap(err, "rendering credentials email")
	}
	return errors.Wrap(n.mailSvc.Send(ctx, msg), "sending credentials email")
}

// DispatchCredentials sends the credentials email in the background, bounded by the notifier timeout.
// Failures are logged and otherwise ignored.
func (n *Notifier) DispatchCredentials(toEmail, applicantName, uniqueID, password string) {
	n.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.SendCredentials(ctx, toEmail, applicantName, uniqueID, password); err != nil {
			n.logger.Warn("credentials email to "+toEmail+" failed", err)
		}
	})
}
