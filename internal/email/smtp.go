package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/prettystyles/booking-api/internal/model"
	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

type smtpService struct {
	dialer *gomail.Dialer
	cfg    SMTPConfig
}

func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg:    cfg,
	}
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return apperrors.NewUnavailable("mail server", fmt.Errorf("failed to send email: %w", err))
	}
	return nil
}

func (s *smtpService) SendVerification(_ context.Context, email, token string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to Pretty Styles</h2>
		<p>Please confirm your email address to finish creating your account.</p>
		<p><a href="%s/auth/confirm?token=%s">Confirm email</a></p>`,
		s.cfg.BaseURL, token)
	return s.send(email, "Confirm your email", body)
}

func (s *smtpService) SendPasswordReset(_ context.Context, email, token string) error {
	body := fmt.Sprintf(`
		<h2>Reset your password</h2>
		<p>We received a request to reset your password. This link expires in one hour.</p>
		<p><a href="%s/auth/reset-password?token=%s">Reset password</a></p>
		<p>If you didn't ask for this, you can ignore this email.</p>`,
		s.cfg.BaseURL, token)
	return s.send(email, "Reset your password", body)
}

func (s *smtpService) SendBookingConfirmation(_ context.Context, p *model.BookingEventPayload) error {
	body := fmt.Sprintf(`
		<h2>Your appointment is booked</h2>
		<p>Hi %s, your %s appointment is confirmed for %s at %s.</p>
		<p>Your $%.0f deposit secures the slot; the balance is due at your appointment.</p>`,
		p.UserName, p.ServiceName, p.AppointmentDate, p.AppointmentTime, p.DepositPaid)
	return s.send(p.UserEmail, "Appointment confirmed", body)
}

func (s *smtpService) SendBookingRescheduled(_ context.Context, p *model.BookingEventPayload) error {
	body := fmt.Sprintf(`
		<h2>Your appointment was rescheduled</h2>
		<p>Hi %s, your %s appointment now takes place on %s at %s.</p>
		<p>Your deposit carries over, nothing else changes.</p>`,
		p.UserName, p.ServiceName, p.AppointmentDate, p.AppointmentTime)
	return s.send(p.UserEmail, "Appointment rescheduled", body)
}

func (s *smtpService) SendBookingCancelled(_ context.Context, p *model.BookingEventPayload) error {
	refundLine := fmt.Sprintf("Cancellations within 24 hours forfeit the $%.0f deposit.", p.DepositPaid)
	if p.DepositRefunded != nil && *p.DepositRefunded {
		refundLine = fmt.Sprintf("Your $%.0f deposit will be refunded within 3-5 business days.", p.DepositPaid)
	}

	body := fmt.Sprintf(`
		<h2>Your appointment was cancelled</h2>
		<p>Hi %s, your %s appointment on %s at %s has been cancelled.</p>
		<p>%s</p>`,
		p.UserName, p.ServiceName, p.AppointmentDate, p.AppointmentTime, refundLine)
	return s.send(p.UserEmail, "Appointment cancelled", body)
}
