// Package mailer sends transactional email through the Mailgun HTTP API.
package mailer

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/socialapi-dev/socialapi/internal/config"
	"github.com/socialapi-dev/socialapi/internal/logger"
)

const (
	clientTimeout         = 30 * time.Second
	dialTimeout           = 10 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 15 * time.Second
)

// DeliveryError reports a non-success response from the email provider.
// It is swallowed at the scheduling boundary; callers of Schedule never see it.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("mailgun API returned an error: %d - %s", e.StatusCode, e.Body)
}

type Mailgun struct {
	cfg    *config.Mailgun
	apiKey string
	client *http.Client
}

func New(cfg *config.Mailgun, apiKey string) *Mailgun {
	return &Mailgun{
		cfg:    cfg,
		apiKey: apiKey,
		client: newHTTPClient(),
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: clientTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   tlsHandshakeTimeout,
			ResponseHeaderTimeout: responseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// Send delivers a plain-text email. Non-2xx provider responses become a
// DeliveryError.
func (m *Mailgun) Send(ctx context.Context, to, subject, body string) error {
	// truncated to avoid logging sensitive or overly long values
	logger.Log.Debug("sending email", "to", truncate(to, 3), "subject", truncate(subject, 20))

	form := url.Values{}
	form.Set("from", fmt.Sprintf("%s <mailgun@%s>", m.cfg.SenderName, m.cfg.Domain))
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("text", body)

	endpoint := fmt.Sprintf("%s/v3/%s/messages", m.cfg.APIBase, m.cfg.Domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth("api", m.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &DeliveryError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}

// SendRegistrationEmail sends the signup email with the confirmation link.
func (m *Mailgun) SendRegistrationEmail(ctx context.Context, email, confirmationURL string) error {
	body := fmt.Sprintf(
		"Hi %s! You have successfully signed up to %s.\n"+
			"Please confirm your email by clicking the link below:\n"+
			"%s\n\n"+
			"If you did not sign up for this account, please ignore this email.",
		email, m.cfg.SenderName, confirmationURL,
	)
	return m.Send(ctx, email, "Successfully signed up", body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
