package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/config"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/events"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeEmail struct {
	mu     sync.Mutex
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (f *fakeEmail) Send(m *mail.SGMailV3) (*rest.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	if f.err != nil {
		return nil, f.err
	}
	status := f.status
	if status == 0 {
		status = 202
	}
	return &rest.Response{StatusCode: status}, nil
}

func (f *fakeEmail) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		for _, p := range m.Personalizations {
			for _, to := range p.To {
				out = append(out, to.Address)
			}
		}
	}
	return out
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []*twilioApi.CreateMessageParams
	err  error
}

func (f *fakeSMS) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, p)
	return &twilioApi.ApiV2010Message{}, f.err
}

func notificationFixture(t *testing.T, notifyGuests bool) (*fixture, *NotificationService, *fakeEmail, *fakeSMS) {
	f := newFixture(t)
	cfg := &config.Config{
		OrganizationName:             utils.OrganizationName,
		LDFlag_NotifyGuests:          notifyGuests,
		LDFlag_AdminNotificationMail: "desk@transhastays.com",
		LDFlag_SendgridFromEmail:     "no-reply@transhastays.com",
		LDFlag_TwilioFromPhone:       "+15005550006",
		LDFlag_SendgridSandboxMode:   true,
	}
	email, sms := &fakeEmail{}, &fakeSMS{}
	return f, NewNotificationService(cfg, email, sms, fakeProperties{s: f.store}), email, sms
}

func sampleBooking(f *fixture) *models.Booking {
	out := day("2024-01-13")
	return &models.Booking{
		ID:            uuid.New(),
		Kind:          models.InventoryApartment,
		PropertyID:    f.apartment.ID,
		Selector:      models.FullApartmentSelector{FullApartmentID: f.fullApartment.ID},
		Guest:         models.Guest{Name: "Ravi", Phone: "98765 43210", Email: "ravi@example.com"},
		CheckIn:       day("2024-01-10"),
		CheckOut:      &out,
		TotalNights:   3,
		TotalPrice:    6000,
		BookingStatus: models.BookingConfirmed,
		PaymentStatus: models.PaymentPending,
	}
}

func TestNotificationAdminOnlyByDefault(t *testing.T) {
	f, svc, email, sms := notificationFixture(t, false)

	err := svc.Handle(context.Background(), events.NewBookingEvent(events.BookingCreated, sampleBooking(f)))
	require.NoError(t, err)

	assert.Equal(t, []string{"desk@transhastays.com"}, email.recipients())
	assert.Empty(t, sms.sent)

	msg := email.sent[0]
	assert.True(t, strings.HasPrefix(msg.Subject, "[Admin] "))
	assert.Contains(t, msg.Subject, "Sea View Residences")
	require.NotNil(t, msg.MailSettings)
	assert.True(t, *msg.MailSettings.SandboxMode.Enable)
	assert.False(t, *msg.TrackingSettings.ClickTracking.Enable)
}

func TestNotificationReachesGuestWhenEnabled(t *testing.T) {
	f, svc, email, sms := notificationFixture(t, true)

	err := svc.Handle(context.Background(), events.NewBookingEvent(events.BookingCancelled, sampleBooking(f)))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"desk@transhastays.com", "ravi@example.com"}, email.recipients())
	require.Len(t, sms.sent, 1)
	assert.Equal(t, "+919876543210", *sms.sent[0].To)
	assert.Contains(t, *sms.sent[0].Body, "cancelled")
}

func TestNotificationSkipsInvalidPhone(t *testing.T) {
	f, svc, _, sms := notificationFixture(t, true)
	b := sampleBooking(f)
	b.Guest.Phone = "call me"

	require.NoError(t, svc.Handle(context.Background(), events.NewBookingEvent(events.BookingCreated, b)))
	assert.Empty(t, sms.sent)
}

func TestNotificationLeaseUsesTenantContact(t *testing.T) {
	f, svc, email, sms := notificationFixture(t, true)
	f.tenant.Email = "asha@example.com"
	l := &models.Lease{
		ID:         uuid.New(),
		PropertyID: f.pg.ID,
		BedID:      f.bed1.ID,
		TenantID:   f.tenant.ID,
		StartDate:  day("2024-01-01"),
		RentAmount: 4500,
		Status:     models.LeaseActive,
	}

	require.NoError(t, svc.Handle(context.Background(), events.NewLeaseEvent(events.LeaseCreated, l, f.tenant)))
	assert.ElementsMatch(t, []string{"desk@transhastays.com", "asha@example.com"}, email.recipients())
	require.Len(t, sms.sent, 1)
	assert.Equal(t, f.tenant.Phone, *sms.sent[0].To)
	assert.Contains(t, email.sent[0].Subject, "Green Nest PG")
}

func TestNotificationReportsDeliveryFailures(t *testing.T) {
	f, svc, email, sms := notificationFixture(t, true)
	email.status = 500
	sms.err = errors.New("twilio down")

	err := svc.Handle(context.Background(), events.NewBookingEvent(events.BookingCreated, sampleBooking(f)))
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrExternalServiceFailure)
	assert.Contains(t, err.Error(), "admin email")
	assert.Contains(t, err.Error(), "guest sms")
}

func TestNotificationWithoutClientsIsNoop(t *testing.T) {
	f := newFixture(t)
	svc := NewNotificationService(&config.Config{LDFlag_NotifyGuests: true, LDFlag_AdminNotificationMail: "desk@transhastays.com"}, nil, nil, nil)

	require.NoError(t, svc.Handle(context.Background(), events.NewBookingEvent(events.BookingCreated, sampleBooking(f))))
	require.NoError(t, svc.Handle(context.Background(), events.BookingEvent{Type: events.BookingCreated}))
	require.NoError(t, LogEvent(context.Background(), events.NewBookingEvent(events.BookingCreated, sampleBooking(f))))
}
