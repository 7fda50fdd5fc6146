package service

import (
	"context"
	"strings"

	"github.com/Totarae/ResearchAggregator/internal/fanout"
	"github.com/Totarae/ResearchAggregator/internal/model"
)

// Ограничения и значения по умолчанию для поиска новостей.
const (
	DefaultLanguage  = "en"
	DefaultPageSize  = 5
	MaxPageSize      = 10
	ResearchPageSize = 3
)

// Weather возвращает погоду для одного города.
func (s *ResearchService) Weather(ctx context.Context, city string) (*model.Weather, error) {
	city, err := normalizeCity(city)
	if err != nil {
		return nil, err
	}
	return s.Providers.Weather.CurrentWeather(ctx, city)
}

// News ищет новости. pageSize вне диапазона 1..10 даёт ошибку валидации.
func (s *ResearchService) News(ctx context.Context, query, language string, pageSize int) (*model.NewsDigest, error) {
	q, err := normalizeNewsQuery(query, language, pageSize)
	if err != nil {
		return nil, err
	}
	return s.Providers.News.SearchNews(ctx, q)
}

// Exchange возвращает курс from→to и пересчитанную сумму.
func (s *ResearchService) Exchange(ctx context.Context, from, to string, amount model.Amount) (*model.ExchangeRate, error) {
	from, to, value, err := normalizeExchange(from, to, amount)
	if err != nil {
		return nil, err
	}
	return s.convert(ctx, from, to, value)
}

func (s *ResearchService) convert(ctx context.Context, from, to string, amount float64) (*model.ExchangeRate, error) {
	rate, err := s.Providers.Exchange.ExchangeRate(ctx, from, to)
	if err != nil {
		return nil, err
	}
	res := *rate
	res.Amount = amount
	res.ConvertedAmount = convertAmount(amount, rate.Rate)
	return &res, nil
}

func normalizeCity(city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", fanout.Invalid("city", "must not be empty")
	}
	return city, nil
}

func normalizeNewsQuery(query, language string, pageSize int) (model.NewsQuery, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.NewsQuery{}, fanout.Invalid("news_query", "must not be empty")
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = DefaultLanguage
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return model.NewsQuery{}, fanout.Invalid("page_size", "must be between 1 and %d", MaxPageSize)
	}
	return model.NewsQuery{Query: query, Language: language, PageSize: pageSize}, nil
}
