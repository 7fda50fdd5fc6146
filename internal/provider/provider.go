package provider

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/config"
	"github.com/Totarae/ResearchAggregator/internal/model"
)

//go:generate mockgen -source=provider.go -destination=../mocks/mock_provider.go -package=mocks

// Weather отдаёт текущую погоду.
type Weather interface {
	CurrentWeather(ctx context.Context, city string) (*model.Weather, error)
}

type News interface {
	SearchNews(ctx context.Context, q model.NewsQuery) (*model.NewsDigest, error)
}

// Exchange отдаёт курсы валют.
type Exchange interface {
	ExchangeRate(ctx context.Context, from, to string) (*model.ExchangeRate, error)
}

// Set содержит поставщиков, выбранных по конфигурации.
type Set struct {
	Weather  Weather
	News     News
	Exchange Exchange
	Mode     string
}

// NewSet создаёт живых или тестовых поставщиков в зависимости от cfg.ProviderMode.
func NewSet(cfg *config.Config, httpClient *http.Client, logger *zap.Logger) *Set {
	if cfg.ProviderMode == config.ProviderLive {
		return &Set{
			Weather:  NewOpenWeather(cfg.WeatherBaseURL, cfg.OpenWeatherAPIKey, httpClient, logger),
			News:     NewNewsAPI(cfg.NewsBaseURL, cfg.NewsAPIKey, httpClient, logger),
			Exchange: NewExchangeRateAPI(cfg.ExchangeBaseURL, cfg.ExchangeRateAPIKey, httpClient, logger),
			Mode:     config.ProviderLive,
		}
	}

	d := FixedDelay(cfg.MockLatency)
	return &Set{
		Weather:  &MockWeather{Delay: d},
		News:     &MockNews{Delay: d},
		Exchange: &MockExchange{Delay: d},
		Mode:     config.ProviderMock,
	}
}

// NewHTTPClient возвращает клиента с общим таймаутом внешних запросов.
func NewHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.DownstreamTimeout}
}
