package notify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailyspend/dailyspend/internal/model"
)

func testLedger() model.Ledger {
	return model.Ledger{
		Groups: []model.Group{
			{Key: "Food:Coffee:", Amount: decimal.RequireFromString("7.5")},
			{Key: "Transport:", Amount: decimal.RequireFromString("30")},
		},
		TotalExpenses: decimal.RequireFromString("42.5"),
		NetTotal:      decimal.RequireFromString("37.5"),
	}
}

func TestBody(t *testing.T) {
	want := "Food:Coffee:: 7.50\nTransport:: 30.00\nTotal Expenses: 42.50\nNet Total: 37.50\n"
	assert.Equal(t, want, Body(testLedger()))
}

func TestBody_Empty(t *testing.T) {
	assert.Equal(t, "Total Expenses: 0.00\nNet Total: 0.00\n", Body(model.Ledger{}))
}

func TestSMS_Notify(t *testing.T) {
	var form url.Values
	var user, pass, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		user, pass, _ = r.BasicAuth()
		body, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid": "SM1"}`))
	}))
	defer srv.Close()

	s := &SMS{BaseURL: srv.URL, SID: "AC123", AuthToken: "tok", From: "+15550001", To: "+15550002"}
	err := s.Notify(context.Background(), Message{Subject: Subject, Body: "Food:: 1.00\n"})
	require.NoError(t, err)

	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", path)
	assert.Equal(t, "AC123", user)
	assert.Equal(t, "tok", pass)
	assert.Equal(t, "+15550001", form.Get("From"))
	assert.Equal(t, "+15550002", form.Get("To"))
	assert.Equal(t, "Food:: 1.00\n", form.Get("Body"))
}

func TestSMS_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code": 21211, "message": "Invalid 'To' Phone Number", "status": 400}`))
	}))
	defer srv.Close()

	s := &SMS{BaseURL: srv.URL, SID: "AC123"}
	err := s.Notify(context.Background(), Message{Body: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "21211")
	assert.Contains(t, err.Error(), "Invalid 'To' Phone Number")
}

func TestEmail_Notify(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	e := &Email{
		Host:        "smtp.example.com",
		Port:        587,
		Account:     "me@example.com",
		AppPassword: "pw",
		To:          "you@example.com",
		Send: func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		},
	}

	err := e.Notify(context.Background(), Message{Subject: Subject, Body: Body(testLedger())})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "me@example.com", gotFrom)
	assert.Equal(t, []string{"you@example.com"}, gotTo)
	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: Yesterday's Expenses\r\n")
	assert.Contains(t, msg, "\r\n\r\nFood:Coffee:: 7.50\r\n")
	assert.Contains(t, msg, "Net Total: 37.50\r\n")
}

func TestEmail_DefaultsRecipientToSender(t *testing.T) {
	var gotTo []string
	e := &Email{Host: "h", Port: 25, Account: "me@example.com", Send: func(_ string, _ smtp.Auth, _ string, to []string, _ []byte) error {
		gotTo = to
		return nil
	}}
	require.NoError(t, e.Notify(context.Background(), Message{}))
	assert.Equal(t, []string{"me@example.com"}, gotTo)
}

func TestEmail_Error(t *testing.T) {
	boom := errors.New("535 auth failed")
	e := &Email{Host: "h", Port: 25, Send: func(string, smtp.Auth, string, []string, []byte) error { return boom }}
	err := e.Notify(context.Background(), Message{})
	assert.ErrorIs(t, err, boom)
}
