// Package slipok verifies slips through the SlipOK QR verification API.
package slipok

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
)

const DefaultBaseURL = "https://api.slipok.com/api/line/apikey"

// Dialect labels results that came from the verification service.
const Dialect common.Dialect = "SlipOK"

var (
	ErrVerification  = errors.New("slip verification failed")
	ErrNotConfigured = errors.New("slipok branch and authorization are required")
)

type Config struct {
	BaseURL       string
	Branch        string
	Authorization string
	MaxRetries    int
	RetryInterval time.Duration
	HTTPClient    *http.Client
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, http: hc}
}

func (c *Client) Configured() bool {
	return c.cfg.Branch != "" && c.cfg.Authorization != ""
}

type account struct {
	DisplayName string `json:"displayName"`
	Name        string `json:"name"`
}

func (a *account) label() string {
	switch {
	case a == nil:
		return common.Placeholder
	case a.DisplayName != "":
		return a.DisplayName
	case a.Name != "":
		return a.Name
	}
	return common.Placeholder
}

type slip struct {
	TransRef    string   `json:"transRef"`
	SendingBank string   `json:"sendingBank"`
	TransDate   string   `json:"transDate"`
	TransTime   string   `json:"transTime"`
	Sender      *account `json:"sender"`
	Receiver    *account `json:"receiver"`
	Amount      float64  `json:"amount"`
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

// toFields maps a verified slip to extraction fields. transDate is yyyymmdd.
func (s slip) toFields() common.Fields {
	f := common.NewFields(common.BankFromString(s.SendingBank))

	if s.TransDate != "" && s.TransTime != "" {
		if len(s.TransDate) == 8 {
			f.Date = fmt.Sprintf("%s-%s-%s %s", s.TransDate[:4], s.TransDate[4:6], s.TransDate[6:], s.TransTime)
		} else {
			f.Date = s.TransDate + " " + s.TransTime
		}
	}
	f.Sender = s.Sender.label()
	f.Receiver = s.Receiver.label()
	f.Amount = decimal.NewFromFloat(s.Amount).StringFixed(2)
	if s.TransRef != "" {
		f.RefID = s.TransRef
	}
	return f
}

// Verify submits a slip QR payload and returns its verified fields.
func (c *Client) Verify(ctx context.Context, qr string) (common.Fields, error) {
	if !c.Configured() {
		return common.Fields{}, ErrNotConfigured
	}
	body, err := json.Marshal(map[string]any{"data": qr, "log": false})
	if err != nil {
		return common.Fields{}, err
	}

	var res envelope[slip]
	if err := c.do(ctx, http.MethodPost, c.endpoint(), body, &res); err != nil {
		return common.Fields{}, err
	}
	if !res.Success || res.Data == nil {
		return common.Fields{}, fmt.Errorf("%w: %s", ErrVerification, res.Message)
	}

	log := logger.FromContext(ctx)
	log.Debug().Str("ref_id", res.Data.TransRef).Msg("slip verified")
	return res.Data.toFields(), nil
}

// Quota returns the verifications left on the branch.
func (c *Client) Quota(ctx context.Context) (int, error) {
	if !c.Configured() {
		return 0, ErrNotConfigured
	}

	var res envelope[struct {
		Quota int `json:"quota"`
	}]
	if err := c.do(ctx, http.MethodGet, c.endpoint()+"/quota", nil, &res); err != nil {
		return 0, err
	}
	if !res.Success || res.Data == nil {
		return 0, fmt.Errorf("%w: quota: %s", ErrVerification, res.Message)
	}
	return res.Data.Quota, nil
}

func (c *Client) endpoint() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + c.cfg.Branch
}

// do sends the request, retrying network failures, 429 and 5xx responses.
// Other 4xx responses fail immediately.
func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	log := logger.FromContext(ctx)

	operation := func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("x-authorization", c.cfg.Authorization)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("slipok: status %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			var e envelope[json.RawMessage]
			_ = json.Unmarshal(data, &e)
			return backoff.Permanent(fmt.Errorf("%w: status %d: %s", ErrVerification, resp.StatusCode, e.Message))
		}

		if err := json.Unmarshal(data, out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode slipok response: %w", err))
		}
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.cfg.RetryInterval
	var b backoff.BackOff = eb
	if c.cfg.MaxRetries >= 0 {
		b = backoff.WithMaxRetries(eb, uint64(c.cfg.MaxRetries))
	}

	return backoff.RetryNotify(operation, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("wait", wait).Msg("retrying slipok request")
	})
}
