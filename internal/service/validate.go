package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/Totarae/ResearchAggregator/internal/fanout"
	"github.com/Totarae/ResearchAggregator/internal/model"
)

// Валюты по умолчанию совпадают с фронтендом.
const (
	DefaultFromCurrency = "USD"
	DefaultToCurrency   = "EUR"
)

func normalizeCurrency(field, code, def string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return def, nil
	}
	if len(code) != 3 {
		return "", fanout.Invalid(field, "%q is not a 3-letter currency code", code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fanout.Invalid(field, "%q is not a 3-letter currency code", code)
		}
	}
	return code, nil
}

// ParseAmount разбирает сумму. Пустая сумма означает 1.
func ParseAmount(a model.Amount) (float64, error) {
	raw := strings.TrimSpace(string(a))
	if raw == "" {
		return 1, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fanout.Invalid("amount", "%q is not a number", raw)
	}
	if v < 0 {
		return 0, fanout.Invalid("amount", "must not be negative")
	}
	return v, nil
}

func normalizeExchange(from, to string, amount model.Amount) (string, string, float64, error) {
	from, err := normalizeCurrency("from_currency", from, DefaultFromCurrency)
	if err != nil {
		return "", "", 0, err
	}
	to, err = normalizeCurrency("to_currency", to, DefaultToCurrency)
	if err != nil {
		return "", "", 0, err
	}
	value, err := ParseAmount(amount)
	if err != nil {
		return "", "", 0, err
	}
	return from, to, value, nil
}

func convertAmount(amount, rate float64) float64 {
	return math.Round(amount*rate*100) / 100
}
