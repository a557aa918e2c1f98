package notify

import (
	"bytes"
	"errors"
	"fmt"
	"net/mail"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/finsim-go/internal/calculations"
	"github.com/cloud-ru/finsim-go/internal/config"
	"github.com/cloud-ru/finsim-go/internal/export"
	"github.com/cloud-ru/finsim-go/internal/report"
)

// ErrMailerDisabled SMTP не настроен
var ErrMailerDisabled = errors.New("mailer disabled: SMTP_HOST is not set")

// ErrInvalidRecipient адрес получателя не разобран
var ErrInvalidRecipient = errors.New("invalid recipient address")

// ScheduleAttachment имя вложения с графиком платежей
const ScheduleAttachment = "amortization.xml"

// summaryRows количество строк графика в теле письма
const summaryRows = 12

type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// Mailer отправляет отчеты по SMTP
type Mailer struct {
	cfg    *config.Config
	logger logrus.FieldLogger
	send   sendFunc
}

// NewMailer создает отправителя отчетов
func NewMailer(cfg *config.Config, logger logrus.FieldLogger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Enabled сообщает, может ли отправитель работать
func (m *Mailer) Enabled() bool {
	return m.cfg.MailEnabled()
}

// BuildLoanReport собирает письмо: markdown-отчет в теле, XML-график во вложении
func (m *Mailer) BuildLoanReport(to string, in calculations.LoanInputs, result calculations.AmortizationResult) (*email.Email, error) {
	addr, err := mail.ParseAddress(to)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	}

	data, err := export.ScheduleXML(in, result)
	if err != nil {
		return nil, err
	}

	e := email.NewEmail()
	e.From = m.cfg.SenderEmail
	e.To = []string{addr.Address}
	e.Subject = fmt.Sprintf("Loan amortization report: %s, payoff %s",
		report.FormatBaht(in.Principal), result.Summary.PayoffDate)
	e.Text = []byte(report.LoanMarkdown(in, result, summaryRows))

	if _, err := e.Attach(bytes.NewReader(data), ScheduleAttachment, export.ContentType); err != nil {
		return nil, fmt.Errorf("failed to attach schedule: %w", err)
	}
	return e, nil
}

// SendLoanReport отправляет отчет по кредиту на адрес to
func (m *Mailer) SendLoanReport(to string, in calculations.LoanInputs, result calculations.AmortizationResult) error {
	if !m.Enabled() {
		return ErrMailerDisabled
	}

	e, err := m.BuildLoanReport(to, in, result)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	if err := m.send(e, m.cfg.SMTPAddr(), auth); err != nil {
		m.logger.Errorf("Failed to send loan report to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
