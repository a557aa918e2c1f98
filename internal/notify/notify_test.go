package notify

import (
	"errors"
	"io"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/finsim-go/internal/calculations"
	"github.com/cloud-ru/finsim-go/internal/config"
)

func testLoan() (calculations.LoanInputs, calculations.AmortizationResult) {
	in := calculations.LoanInputs{
		Principal:          3000000,
		AnnualInterestRate: 6,
		TermYears:          30,
		StartDate:          time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	}
	return in, calculations.ComputeAmortizationSchedule(in)
}

func testMailer(host string) *Mailer {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{
		SMTPHost:     host,
		SMTPPort:     2525,
		SMTPUsername: "user",
		SMTPPassword: "secret",
		SenderEmail:  "reports@example.com",
	}
	return NewMailer(cfg, log)
}

func TestSendLoanReportDisabled(t *testing.T) {
	in, result := testLoan()
	err := testMailer("").SendLoanReport("user@example.com", in, result)
	assert.ErrorIs(t, err, ErrMailerDisabled)
}

func TestBuildLoanReport(t *testing.T) {
	in, result := testLoan()
	m := testMailer("smtp.example.com")

	e, err := m.BuildLoanReport("Borrower <borrower@example.com>", in, result)
	require.NoError(t, err)

	assert.Equal(t, "reports@example.com", e.From)
	assert.Equal(t, []string{"borrower@example.com"}, e.To)
	assert.Contains(t, e.Subject, result.Summary.PayoffDate)
	assert.Contains(t, string(e.Text), "# Loan Amortization")
	assert.Contains(t, string(e.Text), "348 more periods not shown")

	require.Len(t, e.Attachments, 1)
	assert.Equal(t, ScheduleAttachment, e.Attachments[0].Filename)
	assert.True(t, strings.HasPrefix(string(e.Attachments[0].Content), "<?xml"))

	_, err = m.BuildLoanReport("not-an-address", in, result)
	assert.ErrorIs(t, err, ErrInvalidRecipient)
}

func TestSendLoanReport(t *testing.T) {
	in, result := testLoan()
	m := testMailer("smtp.example.com")

	var gotAddr string
	var sent *email.Email
	m.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		gotAddr = addr
		sent = e
		return nil
	}

	require.NoError(t, m.SendLoanReport("borrower@example.com", in, result))
	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	require.NotNil(t, sent)

	m.send = func(*email.Email, string, smtp.Auth) error { return errors.New("connection refused") }
	err := m.SendLoanReport("borrower@example.com", in, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
