package programs

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/program"
)

// ErrIncompleteMail is returned by Send when the subject or message is
// empty.
var ErrIncompleteMail = errors.New("please complete the subject and message fields")

type mailStatus int

const (
	mailIdle mailStatus = iota
	mailSending
	mailSent
)

type mailField int

const (
	fieldSubject mailField = iota
	fieldBody
)

// Mail is a compose-only mail client with a fixed recipient. Sending is
// simulated.
type Mail struct {
	deps      *Deps
	recipient string

	// Delays; tests shorten them.
	sendDelay  time.Duration
	clearDelay time.Duration

	mu      sync.Mutex
	subject lineEditor
	body    *textArea
	focus   mailField
	status  mailStatus
	timers  []*time.Timer
	closed  bool
}

func newMail(d *Deps) program.Factory {
	return func(context.Context, *program.Instance, program.Options) (program.Content, error) {
		return NewMail(d), nil
	}
}

// NewMail returns an empty compose form.
func NewMail(d *Deps) *Mail {
	return &Mail{
		deps:       d,
		recipient:  d.Config.Programs.MailRecipient,
		sendDelay:  config.MailSendDelay,
		clearDelay: config.NotificationDuration,
		body:       newTextArea(""),
	}
}

// Recipient returns the fixed To address.
func (m *Mail) Recipient() string { return m.recipient }

// SetDraft replaces the subject and message.
func (m *Mail) SetDraft(subject, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subject.Set(subject)
	m.body.Set(body)
}

// Draft returns the subject and message being composed.
func (m *Mail) Draft() (subject, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subject.String(), m.body.String()
}

// Status returns the send status line, empty when idle.
func (m *Mail) Status() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.status {
	case mailSending:
		return "Sending email..."
	case mailSent:
		return "✓ Message sent successfully!"
	}
	return ""
}

// Send validates the draft and simulates delivery: the status shows
// "Sending" for a moment, then success, and the form is cleared.
func (m *Mail) Send() error {
	m.mu.Lock()
	if m.closed || m.status == mailSending {
		m.mu.Unlock()
		return nil
	}
	if strings.TrimSpace(m.subject.String()) == "" || m.body.Empty() {
		m.mu.Unlock()
		m.deps.Notifier.Alert("Mail", "Please complete the subject and message fields.")
		return ErrIncompleteMail
	}
	m.status = mailSending
	m.after(m.sendDelay, func() {
		m.status = mailSent
		m.subject.Reset()
		m.body.Set("")
		m.focus = fieldSubject
		m.deps.Logger.Info("simulated mail sent", "to", m.recipient)
		m.after(m.clearDelay, func() {
			m.status = mailIdle
		})
	})
	m.mu.Unlock()
	return nil
}

// after runs fn under m.mu once d has passed, unless the window closed.
// Callers hold m.mu.
func (m *Mail) after(d time.Duration, fn func()) {
	m.timers = append(m.timers, time.AfterFunc(d, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.closed {
			return
		}
		fn()
	}))
}

// New discards the draft.
func (m *Mail) New() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subject.Reset()
	m.body.Set("")
	m.focus = fieldSubject
}

// Destroy stops pending status timers.
func (m *Mail) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for _, t := range m.timers {
		t.Stop()
	}
	m.timers = nil
}

func (m *Mail) HandleKey(_ context.Context, k program.Key) bool {
	switch k.Name {
	case "ctrl+s":
		_ = m.Send()
		return true
	case "ctrl+n":
		m.New()
		return true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case k.Name == "tab" || k.Name == "shift+tab":
		m.focus = 1 - m.focus
		return true
	case m.focus == fieldSubject:
		if k.Name == "enter" || k.Name == "down" {
			m.focus = fieldBody
			return true
		}
		return m.subject.HandleKey(k)
	default:
		if k.Name == "up" && m.body.row == 0 {
			m.focus = fieldSubject
			return true
		}
		return m.body.HandleKey(k)
	}
}

func (m *Mail) Action(_ context.Context, action string) error {
	switch action {
	case "new-email":
		m.New()
	case "send-email":
		if err := m.Send(); err != nil && !errors.Is(err, ErrIncompleteMail) {
			return err
		}
	default:
		return unknownAction(action)
	}
	return nil
}

func (m *Mail) View(width, height int) string {
	status := m.Status()

	m.mu.Lock()
	defer m.mu.Unlock()

	field := max(width-10, 1)
	rows := []string{
		label("To:      ") + m.recipient,
		label("Subject: ") + m.subject.View(field, m.focus == fieldSubject),
		muted(strings.Repeat("─", width)),
	}
	footer := []string{muted(strings.Repeat("─", width))}
	switch m.status {
	case mailSending:
		footer = append(footer, accent(status))
	case mailSent:
		footer = append(footer, success(status), muted("This is a simulation. No actual email was sent."))
	default:
		footer = append(footer, muted("tab switch field · ctrl+s send · ctrl+n new"))
	}

	bodyHeight := max(height-len(rows)-len(footer), 0)
	bodyRows := m.body.View(width, bodyHeight, m.focus == fieldBody)
	if m.body.Empty() && m.focus != fieldBody && len(bodyRows) > 0 {
		bodyRows[0] = muted("Write your message here...")
	}
	for len(bodyRows) < bodyHeight {
		bodyRows = append(bodyRows, "")
	}
	rows = append(rows, bodyRows...)
	rows = append(rows, footer...)
	return frame(rows, width, height)
}
