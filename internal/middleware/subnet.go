package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/Totarae/ResearchAggregator/internal/model"
)

// TrustedSubnet пропускает только запросы, чей X-Real-IP входит в cidr.
// Пустой cidr закрывает доступ для всех.
func TrustedSubnet(cidr string) func(http.Handler) http.Handler {
	prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
	valid := err == nil

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !valid || !allowed(prefix, r.Header.Get("X-Real-IP")) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func allowed(prefix netip.Prefix, realIP string) bool {
	realIP = strings.TrimSpace(realIP)
	if host, _, err := net.SplitHostPort(realIP); err == nil {
		realIP = host
	}
	addr, err := netip.ParseAddr(realIP)
	if err != nil {
		return false
	}
	return prefix.Contains(addr.Unmap())
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg, StatusCode: code})
}
