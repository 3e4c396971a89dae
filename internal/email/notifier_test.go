package email

import (
	"errors"
	"testing"

	"storefront-bot/internal/models"

	"github.com/resendlabs/resend-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotifierValidates(t *testing.T) {
	_, err := NewNotifier("", "bot@store.ly", "support@store.ly")
	assert.Error(t, err)

	_, err = NewNotifier("re_key", "", "support@store.ly")
	assert.Error(t, err)

	_, err = NewNotifier("re_key", "bot@store.ly", " , ")
	assert.Error(t, err)

	n, err := NewNotifier("re_key", "bot@store.ly", "a@store.ly, b@store.ly")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@store.ly", "b@store.ly"}, n.to)
}

func TestTicketSubmittedEmail(t *testing.T) {
	var got *resend.SendEmailRequest
	n := &Notifier{
		send: func(req *resend.SendEmailRequest) error { got = req; return nil },
		from: "bot@store.ly",
		to:   []string{"support@store.ly"},
	}

	number := "P1A2B3C4"
	err := n.TicketSubmitted(&models.Ticket{
		ID: "01HZX", UserID: "218910000001", Name: "Omar",
		OrderNumber: &number, Topic: "1_Delivery", Description: "Parcel is late",
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "bot@store.ly", got.From)
	assert.Equal(t, []string{"support@store.ly"}, got.To)
	assert.Equal(t, "Support ticket 01HZX: 1_Delivery", got.Subject)
	assert.Contains(t, got.Text, "Order number: P1A2B3C4")
	assert.Contains(t, got.Text, "Parcel is late")
}

func TestTicketSubmittedWithoutOrder(t *testing.T) {
	var got *resend.SendEmailRequest
	n := &Notifier{send: func(req *resend.SendEmailRequest) error { got = req; return nil }}

	require.NoError(t, n.TicketSubmitted(&models.Ticket{ID: "01HZY", Topic: "3_Other"}))
	assert.Contains(t, got.Text, "Order number: none")
}

func TestTicketSubmittedError(t *testing.T) {
	n := &Notifier{send: func(*resend.SendEmailRequest) error { return errors.New("rate limited") }}
	err := n.TicketSubmitted(&models.Ticket{ID: "x"})
	assert.ErrorContains(t, err, "rate limited")
}
