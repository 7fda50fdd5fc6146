package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Totarae/ResearchAggregator/internal/auth"
	"github.com/Totarae/ResearchAggregator/internal/config"
	"github.com/Totarae/ResearchAggregator/internal/events"
	"github.com/Totarae/ResearchAggregator/internal/fanout"
	"github.com/Totarae/ResearchAggregator/internal/handlers"
	"github.com/Totarae/ResearchAggregator/internal/provider"
	"github.com/Totarae/ResearchAggregator/internal/service"
	"github.com/Totarae/ResearchAggregator/internal/storage"
)

func TestNewRouter_Routes(t *testing.T) {
	store, err := storage.NewFileStore("", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{ProviderMode: config.ProviderMock}
	svc := service.NewResearchService(provider.NewSet(cfg, http.DefaultClient, zap.NewNop()), store, events.Nop{}, zap.NewNop(), fanout.BestEffort)
	h := handlers.NewHandler(svc, auth.New("secret"), zap.NewNop(), config.ModeMemory, cfg.Configured())
	r := NewRouter(h, zap.NewNop(), "10.0.0.0/8")

	tests := []struct {
		method string
		path   string
		realIP string
		want   int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/ping", "", http.StatusOK},
		{http.MethodGet, "/api-explanation", "", http.StatusOK},
		{http.MethodGet, "/api/runs/unknown", "", http.StatusNotFound},
		{http.MethodGet, "/api/user/runs", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/internal/stats", "", http.StatusForbidden},
		{http.MethodGet, "/api/internal/stats", "10.1.2.3", http.StatusOK},
		{http.MethodDelete, "/api/research", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/missing", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
