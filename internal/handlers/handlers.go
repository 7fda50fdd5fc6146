package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/auth"
	"github.com/Totarae/ResearchAggregator/internal/fanout"
	"github.com/Totarae/ResearchAggregator/internal/model"
	"github.com/Totarae/ResearchAggregator/internal/service"
)

// maxBodySize ограничивает тело POST /api/research.
const maxBodySize = 1 << 20

// Имена внешних API в ответах одиночных эндпоинтов.
const (
	apiWeather  = "OpenWeatherMap"
	apiNews     = "NewsAPI"
	apiExchange = "ExchangeRate-API"
)

type Handler struct {
	Service    *service.ResearchService
	Sessions   *auth.Sessions
	Logger     *zap.Logger
	Mode       string
	Configured map[string]bool
}

func NewHandler(svc *service.ResearchService, sessions *auth.Sessions, logger *zap.Logger, mode string, configured map[string]bool) *Handler {
	return &Handler{
		Service:    svc,
		Sessions:   sessions,
		Logger:     logger,
		Mode:       mode,
		Configured: configured,
	}
}

// Root описывает сервис и его эндпоинты.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to Research Aggregator API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":      "/health",
			"weather":     "/api/weather/{city}",
			"news":        "/api/news",
			"exchange":    "/api/exchange",
			"research":    "/api/research",
			"run":         "/api/runs/{id}",
			"user_runs":   "/api/user/runs",
			"explanation": "/api-explanation",
		},
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Mode:           h.Mode,
		ProviderMode:   h.Service.ProviderMode(),
		Policy:         h.Service.Policy.String(),
		ConfiguredAPIs: h.Configured,
	})
}

// Ping проверяет доступность хранилища журнала.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Ping(r.Context()); err != nil {
		h.Logger.Error("run store ping failed", zap.Error(err))
		http.Error(w, "storage unavailable", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) Weather(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.Weather(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		h.writeCallError(w, apiWeather, err)
		return
	}
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true, Data: res, APIUsed: apiWeather})
}

func (h *Handler) News(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pageSize := service.DefaultPageSize
	if raw := q.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid page_size: must be an integer")
			return
		}
		pageSize = n
	}

	res, err := h.Service.News(r.Context(), q.Get("query"), q.Get("language"), pageSize)
	if err != nil {
		h.writeCallError(w, apiNews, err)
		return
	}
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true, Data: res, APIUsed: apiNews})
}

func (h *Handler) Exchange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.Service.Exchange(r.Context(), q.Get("from_currency"), q.Get("to_currency"), model.Amount(q.Get("amount")))
	if err != nil {
		h.writeCallError(w, apiExchange, err)
		return
	}
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true, Data: res, APIUsed: apiExchange})
}

// Research запускает параллельный опрос всех источников и отдаёт
// объект с ключами weather, news и exchange.
func (h *Handler) Research(w http.ResponseWriter, r *http.Request) {
	var req model.ResearchRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := h.Sessions.Identify(w, r)

	out, err := h.Service.Research(r.Context(), userID, req)
	if out != nil && out.RunID != "" {
		w.Header().Set("X-Run-ID", out.RunID)
	}
	if err != nil {
		var aerr *fanout.AggregateError
		if errors.As(err, &aerr) {
			writeJSON(w, http.StatusBadGateway, model.ErrorResponse{
				Error:      aerr.Error(),
				StatusCode: http.StatusBadGateway,
				Targets:    aerr.Targets(),
			})
			return
		}
		h.Logger.Error("research failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, out.Aggregate.Render())
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Service.GetRun(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, model.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		h.Logger.Error("failed to load run", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// UserRuns возвращает журнал текущего пользователя по сессионной куке.
func (h *Handler) UserRuns(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.Sessions.Lookup(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	runs, err := h.Service.UserRuns(r.Context(), userID)
	if err != nil {
		h.Logger.Error("failed to list user runs", zap.String("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if len(runs) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.Stats(r.Context())
	if err != nil {
		h.Logger.Error("failed to collect stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) Explanation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, explanation)
}

// writeCallError переводит ошибку одиночного вызова в конверт ошибки:
// ошибка валидации даёт 400, сбой внешнего API даёт 502.
func (h *Handler) writeCallError(w http.ResponseWriter, api string, err error) {
	var verr *fanout.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	h.Logger.Warn("downstream call failed", zap.String("api", api), zap.Error(err))
	writeError(w, http.StatusBadGateway, fanout.Reason(err))
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, model.ErrorResponse{Error: msg, StatusCode: code})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
