// Package provider содержит клиентов внешних API погоды, новостей и курсов валют,
// а также их тестовые двойники с настраиваемой задержкой.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotConfigured означает, что для поставщика не задан API-ключ.
var ErrNotConfigured = errors.New("API key not configured")

// StatusError возвращается, когда внешний API ответил не-2xx статусом.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.Code, e.Body)
}

// StatusCode возвращает HTTP-статус ответа.
func (e *StatusError) StatusCode() int {
	return e.Code
}

// Client выполняет JSON GET-запросы к одному внешнему API.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создаёт клиента для API name с базовым адресом baseURL.
func NewClient(name, baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		name:       name,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Name возвращает имя API для логов и ответов.
func (c *Client) Name() string {
	return c.name
}

// BuildURL собирает адрес endpoint с query-параметрами.
func (c *Client) BuildURL(endpoint string, params url.Values) string {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// GetJSON выполняет GET и декодирует тело ответа в result.
func (c *Client) GetJSON(ctx context.Context, endpoint string, params url.Values, result any) error {
	target := c.BuildURL(endpoint, params)
	start := time.Now()
	c.logger.Debug("Outbound request", zap.String("api", c.name), zap.String("endpoint", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Outbound request failed",
			zap.String("api", c.name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Outbound request completed",
		zap.String("api", c.name),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding %s response: %w", c.name, err)
	}
	return nil
}
