package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Имена целей исследовательского запроса.
const (
	TargetWeather  = "weather"
	TargetNews     = "news"
	TargetExchange = "exchange"
)

// ResearchRequest тело запроса POST /api/research.
type ResearchRequest struct {
	City         string `json:"city"`
	NewsQuery    string `json:"news_query,omitempty"`
	FromCurrency string `json:"from_currency,omitempty"`
	ToCurrency   string `json:"to_currency,omitempty"`
	Amount       Amount `json:"amount,omitempty"`
}

// Amount хранит сумму в том виде, в каком её прислал клиент: числом или строкой.
// Разбор и проверка выполняются при валидации, чтобы ошибка суммы
// касалась только цели exchange, а не всего запроса.
type Amount string

// UnmarshalJSON принимает число, строку или null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(strings.TrimSpace(s))
		return nil
	}
	*a = Amount(data)
	return nil
}

// MarshalJSON пишет числовую сумму числом, остальное строкой.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a == "" {
		return []byte("null"), nil
	}
	var n json.Number
	if err := json.Unmarshal([]byte(a), &n); err == nil {
		return []byte(a), nil
	}
	return json.Marshal(string(a))
}
