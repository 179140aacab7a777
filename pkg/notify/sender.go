package notify

import (
	"github.com/sirupsen/logrus"
)

// Sender defines the interface for delivering a notification to a member.
// The actual transport (SMTP relay, WhatsApp gateway, SMS provider) is an
// external collaborator; the engine only records the outcome.
type Sender interface {
	// Send delivers one message on the given channel ("email", "whatsapp",
	// "sms") to the recipient address and returns an error if the
	// delivery failed
	Send(channel, recipient, subject, message string) error

	// GetName returns the name of the sender implementation
	GetName() string
}

// LogSender is the development-mode sender: it logs the message instead
// of delivering it and always succeeds.
type LogSender struct {
	logger *logrus.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message and reports success
func (s *LogSender) Send(channel, recipient, subject, message string) error {
	s.logger.WithFields(logrus.Fields{
		"channel":   channel,
		"recipient": recipient,
		"subject":   subject,
	}).Info("Notification (dev mode, not delivered)")
	return nil
}

// GetName returns the sender name
func (s *LogSender) GetName() string {
	return "log"
}
