package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/model"
)

// OpenWeather клиент OpenWeatherMap (GET /weather).
type OpenWeather struct {
	client *Client
	apiKey string
}

func NewOpenWeather(baseURL, apiKey string, httpClient *http.Client, logger *zap.Logger) *OpenWeather {
	return &OpenWeather{
		client: NewClient("OpenWeatherMap", baseURL, httpClient, logger),
		apiKey: apiKey,
	}
}

type owmResponse struct {
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// CurrentWeather возвращает погоду в city в метрических единицах.
func (w *OpenWeather) CurrentWeather(ctx context.Context, city string) (*model.Weather, error) {
	if w.apiKey == "" {
		return nil, fmt.Errorf("OpenWeather %w", ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", w.apiKey)
	params.Set("units", "metric")

	var raw owmResponse
	if err := w.client.GetJSON(ctx, "/weather", params, &raw); err != nil {
		return nil, err
	}

	res := &model.Weather{
		City:        raw.Name,
		Country:     raw.Sys.Country,
		Temperature: raw.Main.Temp,
		FeelsLike:   raw.Main.FeelsLike,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
	}
	if len(raw.Weather) > 0 {
		res.Description = raw.Weather[0].Description
	}
	if raw.Dt > 0 {
		res.ObservedAt = time.Unix(raw.Dt, 0).UTC().Format(time.RFC3339)
	}
	return res, nil
}
