package twilio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mentark/mentark-backend/internal/logger"
)

type Client interface {
	SendSMS(ctx context.Context, to string, body string) error
}

type Config struct {
	AccountSID  string
	AuthToken   string
	BaseURL     string
	DefaultFrom string
	Timeout     time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		AccountSID:  strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")),
		AuthToken:   strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN")),
		BaseURL:     strings.TrimSpace(os.Getenv("TWILIO_BASE_URL")),
		DefaultFrom: strings.TrimSpace(os.Getenv("TWILIO_FROM_NUMBER")),
		Timeout:     30 * time.Second,
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.AccountSID == "" {
		return nil, fmt.Errorf("missing TWILIO_ACCOUNT_SID")
	}
	if cfg.AuthToken == "" {
		return nil, fmt.Errorf("missing TWILIO_AUTH_TOKEN")
	}
	if cfg.DefaultFrom == "" {
		return nil, fmt.Errorf("missing TWILIO_FROM_NUMBER")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com/2010-04-01"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &client{
		log:        log.With("client", "TwilioClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func (c *client) SendSMS(ctx context.Context, to string, body string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("recipient number required")
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("message body required")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.cfg.DefaultFrom)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.cfg.BaseURL, c.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("twilio http %d: %s", resp.StatusCode, string(raw))
	}

	c.log.Debug("SMS sent", "to", to)
	return nil
}
