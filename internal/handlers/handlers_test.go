package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/auth"
	"github.com/Totarae/ResearchAggregator/internal/events"
	"github.com/Totarae/ResearchAggregator/internal/fanout"
	"github.com/Totarae/ResearchAggregator/internal/mocks"
	"github.com/Totarae/ResearchAggregator/internal/model"
	"github.com/Totarae/ResearchAggregator/internal/provider"
	"github.com/Totarae/ResearchAggregator/internal/service"
	"github.com/Totarae/ResearchAggregator/internal/storage"
)

type testEnv struct {
	weather  *mocks.MockWeather
	news     *mocks.MockNews
	exchange *mocks.MockExchange
	sessions *auth.Sessions
	handler  *Handler
	router   *chi.Mux
}

func newTestEnv(t *testing.T, policy fanout.Policy) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	env := &testEnv{
		weather:  mocks.NewMockWeather(ctrl),
		news:     mocks.NewMockNews(ctrl),
		exchange: mocks.NewMockExchange(ctrl),
		sessions: auth.New("test-secret"),
	}
	store, err := storage.NewFileStore("", zap.NewNop())
	require.NoError(t, err)

	set := &provider.Set{Weather: env.weather, News: env.news, Exchange: env.exchange, Mode: "mock"}
	svc := service.NewResearchService(set, store, events.Nop{}, zap.NewNop(), policy)
	env.handler = NewHandler(svc, env.sessions, zap.NewNop(), "in-memory",
		map[string]bool{"weather": false, "news": false, "exchange_rate": false})

	r := chi.NewRouter()
	r.Get("/health", env.handler.Health)
	r.Get("/api/weather/{city}", env.handler.Weather)
	r.Get("/api/news", env.handler.News)
	r.Get("/api/exchange", env.handler.Exchange)
	r.Post("/api/research", env.handler.Research)
	r.Get("/api/runs/{id}", env.handler.GetRun)
	r.Get("/api/user/runs", env.handler.UserRuns)
	r.Get("/api/internal/stats", env.handler.Stats)
	env.router = r
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) research(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/research", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

func (e *testEnv) allSucceed() {
	e.weather.EXPECT().CurrentWeather(gomock.Any(), "Tokyo").
		Return(&model.Weather{City: "Tokyo", Country: "JP", Temperature: 10}, nil)
	e.news.EXPECT().SearchNews(gomock.Any(), gomock.Any()).
		Return(&model.NewsDigest{TotalResults: 1, Articles: []model.Article{{Title: "one"}}, Query: "Tokyo travel OR tourism"}, nil)
	e.exchange.EXPECT().ExchangeRate(gomock.Any(), "USD", "JPY").
		Return(&model.ExchangeRate{Base: "USD", Target: "JPY", Rate: 149.5}, nil)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestResearch_AllSucceed(t *testing.T) {
	env := newTestEnv(t, fanout.BestEffort)
	env.allSucceed()

	rec := env.research(`{"city":"Tokyo","from_currency":"USD","to_currency":"JPY","amount":1000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Len(t, body, 3)
	assert.JSONEq(t, `{"base":"USD","target":"JPY","rate":149.5,"amount":1000,"converted_amount":149500}`,
		string(body[model.TargetExchange]))
	assert.Contains(t, string(body[model.TargetWeather]), `"country":"JP"`)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
}

func TestResearch_TimeoutIsReportedInPlace(t *testing.T) {
	env := newTestEnv(t, fanout.BestEffort)
	env.weather.EXPECT().CurrentWeather(gomock.Any(), "Tokyo").Return(&model.Weather{City: "Tokyo"}, nil)
	env.news.EXPECT().SearchNews(gomock.Any(), gomock.Any()).Return(&model.NewsDigest{}, nil)
	env.exchange.EXPECT().ExchangeRate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, context.DeadlineExceeded)

	rec := env.research(`{"city":"Tokyo","amount":"5"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.JSONEq(t, `{"error":"timeout"}`, string(body[model.TargetExchange]))
	assert.Contains(t, string(body[model.TargetWeather]), `"city":"Tokyo"`)
}

func TestResearch_NonNumericAmount(t *testing.T) {
	env := newTestEnv(t, fanout.BestEffort)
	env.weather.EXPECT().CurrentWeather(gomock.Any(), "Tokyo").Return(&model.Weather{City: "Tokyo"}, nil)
	env.news.EXPECT().SearchNews(gomock.Any(), gomock.Any()).Return(&model.NewsDigest{}, nil)

	rec := env.research(`{"city":"Tokyo","from_currency":"USD","to_currency":"JPY","amount":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.JSONEq(t, `{"error":"invalid amount: \"abc\" is not a number"}`, string(body[model.TargetExchange]))
	assert.NotContains(t, string(body[model.TargetWeather]), "error")
	assert.NotContains(t, string(body[model.TargetNews]), "error")
}

func TestResearch_AllOrNothing(t *testing.T) {
	env := newTestEnv(t, fanout.AllOrNothing)
	env.weather.EXPECT().CurrentWeather(gomock.Any(), gomock.Any()).Return(nil, &provider.StatusError{Code: http.StatusNotFound})
	env.news.EXPECT().SearchNews(gomock.Any(), gomock.Any()).Return(&model.NewsDigest{}, nil)
	env.exchange.EXPECT().ExchangeRate(gomock.Any(), gomock.Any(), gomock.Any()).Return(&model.ExchangeRate{Rate: 1}, nil)

	rec := env.research(`{"city":"Atlantis"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, []string{model.TargetWeather}, resp.Targets)
	assert.Equal(t, "aggregate failed: weather: 404 Not Found", resp.Error)
}

func TestResearch_BadBody(t *testing.T) {
	env := newTestEnv(t, fanout.BestEffort)

	rec := env.research(`{"city":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"invalid request body","status_code":400}`, rec.Body.String())
}

func TestRunJournal(t *testing.T) {
	env := newTestEnv(t, fanout.BestEffort)
	env.allSucceed()

	rec := env.research(`{"city":"Tokyo","to_currency":"JPY"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	runID := rec.Header().Get("X-Run-ID")
	cookie := rec.Result().Cookies()[0]

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/runs/"+runID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var run model.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, runID, run.ID)
	assert.Equal(t, 3, run.Succeeded)
	assert.Equal(t, "Tokyo", run.Request.City)

	req := httptest.NewRequest(http.MethodGet, "/api/user/runs", nil)
	req.AddCookie(cookie)
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []model.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"runs":1,"users":1}`, rec.Body.String())

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserRuns(t *testing.T) {
	env := newTestEnv(t, fanout.BestEffort)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/user/runs", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/user/runs", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: env.sessions.Sign("fresh-user")})
	rec = env.do(req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestWeather(t *testing.T) {
	env := newTestEnv(t, fanout.BestEffort)

	env.weather.EXPECT().CurrentWeather(gomock.Any(), "London").Return(&model.Weather{City: "London"}, nil)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/weather/London", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.JSONEq(t, `true`, string(body["success"]))
	assert.JSONEq(t, `"OpenWeatherMap"`, string(body["api_used"]))

	env.weather.EXPECT().CurrentWeather(gomock.Any(), "Nowhere").
		Return(nil, &provider.StatusError{Code: http.StatusNotFound, Body: `{"message":"city not found"}`})
	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/weather/Nowhere", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"404 Not Found","status_code":502}`, rec.Body.String())

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/weather/%20", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNews(t *testing.T) {
	env := newTestEnv(t, fanout.BestEffort)

	env.news.EXPECT().SearchNews(gomock.Any(), model.NewsQuery{Query: "AI", Language: "en", PageSize: 5}).
		Return(&model.NewsDigest{Query: "AI"}, nil)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/news?query=AI", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, q := range []string{"query=AI&page_size=0", "query=AI&page_size=11", "query=AI&page_size=abc", "page_size=3"} {
		rec = env.do(httptest.NewRequest(http.MethodGet, "/api/news?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestExchange(t *testing.T) {
	env := newTestEnv(t, fanout.BestEffort)

	env.exchange.EXPECT().ExchangeRate(gomock.Any(), "USD", "EUR").
		Return(&model.ExchangeRate{Base: "USD", Target: "EUR", Rate: 0.9}, nil)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/exchange?amount=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.JSONEq(t, `{"base":"USD","target":"EUR","rate":0.9,"amount":10,"converted_amount":9}`, string(body["data"]))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/exchange?amount=ten", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, fanout.AllOrNothing)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var h model.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "in-memory", h.Mode)
	assert.Equal(t, "mock", h.ProviderMode)
	assert.Equal(t, "all-or-nothing", h.Policy)
	assert.Equal(t, map[string]bool{"weather": false, "news": false, "exchange_rate": false}, h.ConfiguredAPIs)
}
