package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/model"
)

// ErrUnsupportedCurrency: в ответе нет курса для запрошенной валюты.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ExchangeRateAPI ходит в ExchangeRate-API (GET /{key}/latest/{base}).
type ExchangeRateAPI struct {
	client *Client
	apiKey string
}

func NewExchangeRateAPI(baseURL, apiKey string, httpClient *http.Client, logger *zap.Logger) *ExchangeRateAPI {
	return &ExchangeRateAPI{
		client: NewClient("ExchangeRate-API", baseURL, httpClient, logger),
		apiKey: apiKey,
	}
}

type exchangeRateResponse struct {
	Result            string             `json:"result"`
	ErrorType         string             `json:"error-type"`
	TimeLastUpdateUTC string             `json:"time_last_update_utc"`
	ConversionRates   map[string]float64 `json:"conversion_rates"`
}

// ExchangeRate возвращает курс from→to. Сумму заполняет вызывающий код.
func (e *ExchangeRateAPI) ExchangeRate(ctx context.Context, from, to string) (*model.ExchangeRate, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("Exchange Rate %w", ErrNotConfigured)
	}

	endpoint := "/" + url.PathEscape(e.apiKey) + "/latest/" + url.PathEscape(from)

	var raw exchangeRateResponse
	if err := e.client.GetJSON(ctx, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	if raw.Result != "success" {
		if raw.ErrorType != "" {
			return nil, fmt.Errorf("failed to fetch exchange rates: %s", raw.ErrorType)
		}
		return nil, errors.New("failed to fetch exchange rates")
	}

	rate, ok := raw.ConversionRates[to]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, to)
	}
	return &model.ExchangeRate{
		Base:       from,
		Target:     to,
		Rate:       rate,
		LastUpdate: raw.TimeLastUpdateUTC,
	}, nil
}
