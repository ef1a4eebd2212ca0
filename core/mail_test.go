package core

import (
	"fmt"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct{ errors []string }

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{}) {}
func (l *recordingLogger) Warn(string, ...interface{}) {}
func (l *recordingLogger) Error(msg string, _ ...interface{}) {
	l.errors = append(l.errors, msg)
}
func (l *recordingLogger) Fatal(msg string, _ ...interface{}) { panic(msg) }

func TestParseEmailTemplates(t *testing.T) {
	conf := NewTestConfig()
	logger := &recordingLogger{}
	ParseEmailTemplates(conf, logger)
	require.Empty(t, logger.errors)

	msg := &EmailMessage{
		To:           []mail.Address{{Address: "jane@example.com"}},
		Subject:      "Welcome",
		TemplateName: "credentials",
		TemplateData: struct{ Name, UniqueID, Password string }{"Jane Doe", "STU251234", "Doe"},
	}
	require.NoError(t, msg.Render())

	for _, content := range []string{msg.TextContent, msg.HTMLContent} {
		assert.Contains(t, content, "Jane Doe")
		assert.Contains(t, content, "STU251234")
		assert.Contains(t, content, conf.FrontendBaseURL+"/login")
		assert.Contains(t, content, "The Admin Team", "layout not applied")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	ParseEmailTemplates(NewTestConfig(), &recordingLogger{})

	msg := &EmailMessage{TemplateName: "missing"}
	assert.EqualError(t, msg.Render(), fmt.Sprintf("email template %q not found", "missing"))
}
