package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultYooKassaAPIURL = "https://api.yookassa.ru/v3"
	defaultDescription    = "Payment via demo app"
	testKeyPrefix         = "test_"
	idempotenceKeyAlpha   = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var (
	ErrMissingCredentials = errors.New("yookassa credentials not configured")
	ErrLiveSecretKey      = errors.New("only test yookassa secret keys are allowed")
)

type YooKassaConfig struct {
	ShopID      string
	SecretKey   string
	APIURL      string
	HTTPTimeout time.Duration
}

type YooKassaProvider struct {
	cfg    YooKassaConfig
	client *http.Client
	now    func() time.Time
}

func NewYooKassaProvider(cfg YooKassaConfig) (*YooKassaProvider, error) {
	cfg.ShopID = strings.TrimSpace(cfg.ShopID)
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)
	if cfg.ShopID == "" || cfg.SecretKey == "" {
		return nil, ErrMissingCredentials
	}
	if !strings.HasPrefix(cfg.SecretKey, testKeyPrefix) {
		return nil, ErrLiveSecretKey
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = defaultYooKassaAPIURL
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &YooKassaProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}, nil
}

func (p *YooKassaProvider) CreatePayment(ctx context.Context, input *CreateInput) (*RemotePayment, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = defaultDescription
	}

	payload := struct {
		Amount       Amount       `json:"amount"`
		Confirmation Confirmation `json:"confirmation"`
		Description  string       `json:"description,omitempty"`
		Capture      bool         `json:"capture"`
		Test         bool         `json:"test"`
	}{
		Amount: Amount{
			Value:    input.Amount.StringFixed(2),
			Currency: strings.ToUpper(input.Currency),
		},
		Confirmation: Confirmation{
			Type:      "redirect",
			ReturnURL: input.ReturnURL,
		},
		Description: description,
		Capture:     true,
		Test:        true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Idempotence-Key", p.newIdempotenceKey())

	return p.do(req, "create payment")
}

func (p *YooKassaProvider) GetPayment(ctx context.Context, externalID string) (*RemotePayment, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, errors.New("external payment id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.APIURL+"/payments/"+url.PathEscape(externalID), nil)
	if err != nil {
		return nil, err
	}

	return p.do(req, "get payment")
}

func (p *YooKassaProvider) do(req *http.Request, operation string) (*RemotePayment, error) {
	req.SetBasicAuth(p.cfg.ShopID, p.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GatewayError{Operation: operation, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payment RemotePayment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, fmt.Errorf("decode yookassa %s response: %w", operation, err)
	}
	return &payment, nil
}

// newIdempotenceKey returns "<unix millis>-<13 random chars>", one per create call.
func (p *YooKassaProvider) newIdempotenceKey() string {
	suffix := make([]byte, 13)
	for i := range suffix {
		suffix[i] = idempotenceKeyAlpha[rand.IntN(len(idempotenceKeyAlpha))]
	}
	return strconv.FormatInt(p.now().UnixMilli(), 10) + "-" + string(suffix)
}
