package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/config"
	"github.com/Totarae/ResearchAggregator/internal/fanout"
	"github.com/Totarae/ResearchAggregator/internal/model"
)

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenWeather_CurrentWeather(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "Tokyo", r.URL.Query().Get("q"))
		assert.Equal(t, "key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Tokyo", "dt": 1700000000,
			"sys": {"country": "JP"},
			"main": {"temp": 11.2, "feels_like": 9.8, "humidity": 60},
			"weather": [{"description": "clear sky"}],
			"wind": {"speed": 4.1}
		}`))
	})

	ow := NewOpenWeather(srv.URL, "key", srv.Client(), zap.NewNop())
	got, err := ow.CurrentWeather(context.Background(), "Tokyo")
	require.NoError(t, err)

	assert.Equal(t, &model.Weather{
		City:        "Tokyo",
		Country:     "JP",
		Temperature: 11.2,
		FeelsLike:   9.8,
		Humidity:    60,
		Description: "clear sky",
		WindSpeed:   4.1,
		ObservedAt:  "2023-11-14T22:13:20Z",
	}, got)
}

func TestOpenWeather_NotConfigured(t *testing.T) {
	ow := NewOpenWeather("http://127.0.0.1:1", "", http.DefaultClient, zap.NewNop())
	_, err := ow.CurrentWeather(context.Background(), "Tokyo")
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, "OpenWeather API key not configured", err.Error())
}

func TestClient_StatusError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})

	ow := NewOpenWeather(srv.URL, "key", srv.Client(), zap.NewNop())
	_, err := ow.CurrentWeather(context.Background(), "Tokyo")

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusServiceUnavailable, serr.StatusCode())
	assert.Equal(t, "upstream down", serr.Body)
	assert.Equal(t, "503 Service Unavailable", fanout.Reason(err))
}

func TestClient_Timeout(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	httpClient := &http.Client{Timeout: 20 * time.Millisecond}
	news := NewNewsAPI(srv.URL, "key", httpClient, zap.NewNop())
	_, err := news.SearchNews(context.Background(), model.NewsQuery{Query: "Tokyo", Language: "en", PageSize: 3})

	require.Error(t, err)
	assert.Equal(t, "timeout", fanout.Reason(err))
}

func TestClient_BadJSON(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	ow := NewOpenWeather(srv.URL, "key", srv.Client(), zap.NewNop())
	_, err := ow.CurrentWeather(context.Background(), "Tokyo")
	assert.ErrorContains(t, err, "error decoding OpenWeatherMap response")
}

func TestNewsAPI_SearchNews(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "Tokyo travel OR tourism", q.Get("q"))
		assert.Equal(t, "2", q.Get("pageSize"))
		assert.Equal(t, "relevancy", q.Get("sortBy"))
		assert.Equal(t, "en", q.Get("language"))
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":42,"articles":[
			{"source":{"name":"A"},"title":"one","url":"https://a/1","publishedAt":"2025-01-01T00:00:00Z"},
			{"source":{"name":"B"},"title":"two"},
			{"source":{"name":"C"},"title":"three"}
		]}`))
	})

	news := NewNewsAPI(srv.URL, "key", srv.Client(), zap.NewNop())
	got, err := news.SearchNews(context.Background(), model.NewsQuery{Query: "Tokyo travel OR tourism", Language: "en", PageSize: 2})
	require.NoError(t, err)

	assert.Equal(t, 42, got.TotalResults)
	require.Len(t, got.Articles, 2)
	assert.Equal(t, "one", got.Articles[0].Title)
	assert.Equal(t, "A", got.Articles[0].Source)
	assert.Equal(t, "Tokyo travel OR tourism", got.Query)
}

func TestExchangeRateAPI(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/key/latest/USD":
			_, _ = w.Write([]byte(`{"result":"success","time_last_update_utc":"Fri, 27 Mar 2020 00:00:01 +0000",
				"conversion_rates":{"USD":1,"JPY":149.5,"EUR":0.92}}`))
		case "/key/latest/XXX":
			_, _ = w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
		default:
			http.NotFound(w, r)
		}
	})

	ex := NewExchangeRateAPI(srv.URL, "key", srv.Client(), zap.NewNop())

	got, err := ex.ExchangeRate(context.Background(), "USD", "JPY")
	require.NoError(t, err)
	assert.Equal(t, 149.5, got.Rate)
	assert.Equal(t, "USD", got.Base)
	assert.Equal(t, "JPY", got.Target)
	assert.Equal(t, "Fri, 27 Mar 2020 00:00:01 +0000", got.LastUpdate)

	_, err = ex.ExchangeRate(context.Background(), "USD", "ZZZ")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)

	_, err = ex.ExchangeRate(context.Background(), "XXX", "USD")
	assert.EqualError(t, err, "failed to fetch exchange rates: unsupported-code")
}

func TestFixedDelay(t *testing.T) {
	start := time.Now()
	require.NoError(t, FixedDelay(10*time.Millisecond).Delay(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, FixedDelay(time.Hour).Delay(ctx), context.Canceled)
}

func TestMocks(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

	w, err := (&MockWeather{Delay: NoDelay{}}).CurrentWeather(ctx, "tokyo")
	require.NoError(t, err)
	assert.Equal(t, "JP", w.Country)

	n, err := (&MockNews{}).SearchNews(ctx, model.NewsQuery{Query: "q", PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, n.Articles, 3)

	ex, err := (&MockExchange{Now: func() time.Time { return fixed }}).ExchangeRate(ctx, "USD", "JPY")
	require.NoError(t, err)
	assert.Equal(t, 149.5, ex.Rate)
	assert.Equal(t, "Mon, 01 Dec 2025 09:00:00 UTC", ex.LastUpdate)

	slow := &MockWeather{Delay: DelayFunc(func(ctx context.Context) error {
		return context.DeadlineExceeded
	})}
	_, err = slow.CurrentWeather(ctx, "Paris")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "timeout", fanout.Reason(err))
}

func TestNewSet(t *testing.T) {
	live := NewSet(&config.Config{ProviderMode: config.ProviderLive}, http.DefaultClient, zap.NewNop())
	assert.IsType(t, &OpenWeather{}, live.Weather)
	assert.IsType(t, &NewsAPI{}, live.News)
	assert.IsType(t, &ExchangeRateAPI{}, live.Exchange)

	mock := NewSet(&config.Config{ProviderMode: config.ProviderMock}, http.DefaultClient, zap.NewNop())
	assert.IsType(t, &MockWeather{}, mock.Weather)
	assert.Equal(t, config.ProviderMock, mock.Mode)
}

func TestNewSet_MockExchangeIsStable(t *testing.T) {
	set := NewSet(&config.Config{ProviderMode: config.ProviderMock}, http.DefaultClient, zap.NewNop())

	first, err := set.Exchange.ExchangeRate(context.Background(), "USD", "JPY")
	require.NoError(t, err)
	second, err := set.Exchange.ExchangeRate(context.Background(), "USD", "JPY")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "Mon, 01 Dec 2025 00:00:00 UTC", first.LastUpdate)
}
