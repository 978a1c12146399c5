// Package notify tells operators when an external API fails.
package notify

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"tripwise/internal/models"
)

// Names of the external APIs reported in notifications.
const (
	APIWeather        = "Weather"
	APIGeocoding      = "Geocoding"
	APITextGeneration = "Text generation"
)

// Notifier reports an external API failure. Implementations must not block
// the caller.
type Notifier interface {
	APIFailure(api string, cause error)
}

// Sender delivers prepared messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier emails every staff user.
type EmailNotifier struct {
	db     *gorm.DB
	sender Sender
	from   string
}

func NewEmailNotifier(db *gorm.DB, sender Sender, from string) *EmailNotifier {
	return &EmailNotifier{db: db, sender: sender, from: from}
}

// NewSMTPNotifier builds an EmailNotifier that dials the given SMTP server.
func NewSMTPNotifier(db *gorm.DB, host string, port int, user, pass, from string) *EmailNotifier {
	return NewEmailNotifier(db, gomail.NewDialer(host, port, user, pass), from)
}

// APIFailure sends the notification in the background. Errors are logged
// and never retried.
func (n *EmailNotifier) APIFailure(api string, cause error) {
	go func() {
		if err := n.Send(api, cause); err != nil {
			logrus.WithError(err).WithField("api", api).Error("operator notification failed")
		}
	}()
}

// Send delivers one message addressed to all staff users.
func (n *EmailNotifier) Send(api string, cause error) error {
	var recipients []string
	err := n.db.Model(&models.User{}).
		Where("is_staff = ?", true).
		Where("email <> ''").
		Order("id").
		Pluck("email", &recipients).Error
	if err != nil {
		return fmt.Errorf("load staff emails: %w", err)
	}
	if len(recipients) == 0 {
		logrus.WithField("api", api).Warn("no staff users to notify")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", fmt.Sprintf("%s API failure", api))
	m.SetBody("text/plain", body(api, cause))

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

func body(api string, cause error) string {
	msg := fmt.Sprintf("The %s API failed at %s.", api, time.Now().UTC().Format(time.RFC3339))
	if cause != nil {
		msg += "\n\nError: " + cause.Error()
	}
	return msg
}

// LogNotifier only logs. It is used when SMTP is not configured.
type LogNotifier struct{}

func (LogNotifier) APIFailure(api string, cause error) {
	logrus.WithError(cause).WithField("api", api).Error("external API failure")
}
