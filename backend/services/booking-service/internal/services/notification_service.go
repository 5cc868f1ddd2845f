package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/config"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/events"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-repositories"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// EmailSender is satisfied by *sendgrid.Client.
type EmailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// SMSSender is satisfied by the Api field of *twilio.RestClient.
type SMSSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// NotificationService turns ledger events into guest and admin messages.
// It runs off the request path; a delivery failure is reported to the
// dispatcher and never reaches the booking.
type NotificationService struct {
	cfg        *config.Config
	email      EmailSender
	sms        SMSSender
	properties repositories.PropertyRepository
}

func NewNotificationService(
	cfg *config.Config,
	email EmailSender,
	sms SMSSender,
	properties repositories.PropertyRepository,
) *NotificationService {
	return &NotificationService{cfg: cfg, email: email, sms: sms, properties: properties}
}

type notice struct {
	subject string
	body    string
	name    string
	email   string
	phone   string
}

// Handle is an events.Handler.
func (s *NotificationService) Handle(ctx context.Context, ev events.BookingEvent) error {
	n, ok := s.compose(ctx, ev)
	if !ok {
		return nil
	}

	var errs []error
	if err := s.sendEmail("Reservations Desk", s.cfg.LDFlag_AdminNotificationMail, "[Admin] "+n.subject, n.body); err != nil {
		errs = append(errs, fmt.Errorf("admin email: %w", err))
	}

	if !s.cfg.LDFlag_NotifyGuests {
		return errors.Join(errs...)
	}
	if n.email != "" {
		if err := s.sendEmail(n.name, n.email, n.subject, n.body); err != nil {
			errs = append(errs, fmt.Errorf("guest email: %w", err))
		}
	}
	if n.phone != "" {
		if err := s.sendSMS(n.phone, n.subject+" :: "+n.body); err != nil {
			errs = append(errs, fmt.Errorf("guest sms: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *NotificationService) compose(ctx context.Context, ev events.BookingEvent) (notice, bool) {
	switch {
	case ev.Booking != nil:
		return s.composeBooking(ctx, ev.Type, ev.Booking), true
	case ev.Lease != nil:
		return s.composeLease(ctx, ev.Type, ev.Lease, ev.Tenant), true
	}
	utils.Logger.WithField("event_id", ev.ID).Warn("Event carries neither booking nor lease, skipping notification")
	return notice{}, false
}

func (s *NotificationService) composeBooking(ctx context.Context, t events.EventType, b *models.Booking) notice {
	propName := s.propertyName(ctx, b.PropertyID)
	verb := map[events.EventType]string{
		events.BookingCreated:       "received",
		events.BookingCancelled:     "cancelled",
		events.BookingStatusChanged: "updated",
		events.BookingDeleted:       "removed",
	}[t]

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello %s,\n\nYour booking at %s has been %s.\n\n", b.Guest.Name, propName, verb)
	fmt.Fprintf(&sb, "Booking ID: %s\nStatus: %s\nPayment: %s\n", b.ID, b.BookingStatus, b.PaymentStatus)
	fmt.Fprintf(&sb, "Check-in: %s\n", b.CheckIn.Format(utils.DateLayout))
	if b.CheckOut != nil {
		fmt.Fprintf(&sb, "Check-out: %s (%d nights)\n", b.CheckOut.Format(utils.DateLayout), b.TotalNights)
	}
	fmt.Fprintf(&sb, "Total: %.2f\n", b.TotalPrice)
	if b.AdvanceAmount > 0 {
		fmt.Fprintf(&sb, "Advance: %.2f\n", b.AdvanceAmount)
	}

	return notice{
		subject: fmt.Sprintf("%s booking %s at %s", s.cfg.OrganizationName, verb, propName),
		body:    sb.String(),
		name:    b.Guest.Name,
		email:   b.Guest.Email,
		phone:   b.Guest.Phone,
	}
}

func (s *NotificationService) composeLease(ctx context.Context, t events.EventType, l *models.Lease, tenant *models.Tenant) notice {
	propName := s.propertyName(ctx, l.PropertyID)
	verb := map[events.EventType]string{
		events.LeaseCreated:   "started",
		events.LeaseCancelled: "cancelled",
		events.LeaseEnded:     "ended",
	}[t]

	n := notice{subject: fmt.Sprintf("%s lease %s at %s", s.cfg.OrganizationName, verb, propName)}
	greeting := "Hello"
	if tenant != nil {
		greeting += " " + tenant.Name
		n.name, n.email, n.phone = tenant.Name, tenant.Email, tenant.Phone
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s,\n\nYour lease at %s has %s.\n\n", greeting, propName, verb)
	fmt.Fprintf(&sb, "Lease ID: %s\nStart: %s\n", l.ID, l.StartDate.Format(utils.DateLayout))
	if l.EndDate != nil {
		fmt.Fprintf(&sb, "End: %s\n", l.EndDate.Format(utils.DateLayout))
	}
	fmt.Fprintf(&sb, "Monthly rent: %.2f\nDeposit: %.2f\n", l.RentAmount, l.DepositAmount)
	n.body = sb.String()
	return n
}

// propertyName is best effort: a missing property only degrades the text.
func (s *NotificationService) propertyName(ctx context.Context, id uuid.UUID) string {
	if s.properties == nil {
		return "your property"
	}
	p, err := s.properties.GetByID(ctx, id)
	if err != nil || p == nil {
		return "your property"
	}
	return p.Name
}

func (s *NotificationService) sendEmail(toName, toAddr, subject, body string) error {
	if toAddr == "" {
		return nil
	}
	if s.email == nil {
		utils.Logger.Warnf("SendGrid client is nil, skipping email to %s", toAddr)
		return nil
	}
	from := mail.NewEmail(s.cfg.OrganizationName, s.cfg.LDFlag_SendgridFromEmail)
	to := mail.NewEmail(toName, toAddr)
	msg := mail.NewSingleEmail(from, subject, to, body, "<pre>"+body+"</pre>")
	msg.TrackingSettings = &mail.TrackingSettings{
		ClickTracking: &mail.ClickTrackingSetting{Enable: utils.Ptr(false)},
	}
	if s.cfg.LDFlag_SendgridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}

	resp, err := s.email.Send(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrExternalServiceFailure, err)
	}
	if resp != nil && resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sendgrid status %d", utils.ErrExternalServiceFailure, resp.StatusCode)
	}
	return nil
}

func (s *NotificationService) sendSMS(rawPhone, body string) error {
	phone, ok := utils.NormalizePhoneE164(rawPhone, utils.DefaultCountryCallingCode)
	if !ok {
		utils.Logger.WithField("phone", rawPhone).Warn("Guest phone is not E.164, skipping SMS")
		return nil
	}
	if s.sms == nil {
		utils.Logger.Warnf("Twilio client is nil, skipping SMS to %s", phone)
		return nil
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.cfg.LDFlag_TwilioFromPhone)
	params.SetBody(body)
	if _, err := s.sms.CreateMessage(params); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrExternalServiceFailure, err)
	}
	return nil
}

// LogEvent is a lightweight handler that records every event.
func LogEvent(_ context.Context, ev events.BookingEvent) error {
	fields := logrus.Fields{
		"event_id": ev.ID,
		"type":     ev.Type,
		"kind":     ev.Kind,
		"lag":      time.Since(ev.OccurredAt).String(),
	}
	if ev.Booking != nil {
		fields["booking_id"] = ev.Booking.ID
	}
	if ev.Lease != nil {
		fields["lease_id"] = ev.Lease.ID
	}
	utils.Logger.WithFields(fields).Info("Ledger event")
	return nil
}
