// Package paymentprovider — клиент Stripe для создания продукта, цены
// и checkout-сессии. Все ошибки провайдера оборачиваются в apperrors.ErrExternalService.
package paymentprovider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// CurrencyRUB — валюта, в которой выставляются цены.
const CurrencyRUB = "rub"

// Config — параметры подключения к Stripe.
type Config struct {
	SecretKey  string
	APIURL     string // пусто — боевой API Stripe
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
}

// Client создаёт объекты в Stripe.
type Client struct {
	api        *client.API
	successURL string
	cancelURL  string
	timeout    time.Duration
}

// NewClient создаёт клиент Stripe с ограничением времени на каждый вызов.
func NewClient(cfg Config, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		LeveledLogger:     &slogLogger{log: log},
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	}
	return &Client{
		api:        client.New(cfg.SecretKey, backends),
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		timeout:    timeout,
	}
}

// CreateProduct создаёт продукт с названием name и возвращает его id.
func (c *Client) CreateProduct(ctx context.Context, name, description string) (string, error) {
	const op = "paymentprovider.CreateProduct"
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.ProductParams{Name: stripe.String(name)}
	if description != "" {
		params.Description = stripe.String(description)
	}
	params.Context = ctx
	product, err := c.api.Products.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %s", op, apperrors.ErrExternalService, err)
	}
	return product.ID, nil
}

// CreatePrice создаёт цену amountRUB (в копейках) для продукта productID.
func (c *Client) CreatePrice(ctx context.Context, productID string, amountRUB int64) (string, error) {
	const op = "paymentprovider.CreatePrice"
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.PriceParams{
		Currency:   stripe.String(CurrencyRUB),
		UnitAmount: stripe.Int64(amountRUB),
		Product:    stripe.String(productID),
	}
	params.Context = ctx
	price, err := c.api.Prices.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %s", op, apperrors.ErrExternalService, err)
	}
	return price.ID, nil
}

// CreateCheckoutSession открывает сессию оплаты одной единицы priceID.
func (c *Client) CreateCheckoutSession(ctx context.Context, priceID string) (*models.CheckoutSession, error) {
	const op = "paymentprovider.CreateCheckoutSession"
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		SuccessURL:         stripe.String(c.successURL),
		CancelURL:          stripe.String(c.cancelURL),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", op, apperrors.ErrExternalService, err)
	}
	return &models.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// slogLogger направляет журнал stripe-go в slog.
type slogLogger struct {
	log *slog.Logger
}

func (l *slogLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (l *slogLogger) Infof(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (l *slogLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (l *slogLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}
