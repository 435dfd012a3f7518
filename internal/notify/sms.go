package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioBaseURL is the production Twilio REST host.
const TwilioBaseURL = "https://api.twilio.com"

// SMS sends messages through the Twilio Messages API.
type SMS struct {
	BaseURL   string
	SID       string
	AuthToken string
	From      string
	To        string
	Client    *http.Client
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Notify posts the message body as an SMS. The subject is not sent.
func (s *SMS) Notify(ctx context.Context, msg Message) error {
	base := s.BaseURL
	if base == "" {
		base = TwilioBaseURL
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", base, url.PathEscape(s.SID))

	form := url.Values{}
	form.Set("From", s.From)
	form.Set("To", s.To)
	form.Set("Body", msg.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building sms request: %w", err)
	}
	req.SetBasicAuth(s.SID, s.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		var te twilioError
		if json.Unmarshal(data, &te) == nil && te.Message != "" {
			return fmt.Errorf("sending sms: twilio error %d (status %d): %s", te.Code, resp.StatusCode, te.Message)
		}
		return fmt.Errorf("sending sms: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}
