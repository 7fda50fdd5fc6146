package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Totarae/ResearchAggregator/internal/model"
)

// MockWeather отдаёт заготовленную погоду после задержки Delay.
type MockWeather struct {
	Delay Delayer
}

func (m *MockWeather) CurrentWeather(ctx context.Context, city string) (*model.Weather, error) {
	if err := delay(ctx, m.Delay); err != nil {
		return nil, err
	}

	if strings.EqualFold(city, "tokyo") {
		return &model.Weather{
			City:        city,
			Country:     "JP",
			Temperature: 10,
			FeelsLike:   8,
			Humidity:    65,
			Description: "Cold and dry December weather. Perfect for sightseeing but pack warm layers.",
			WindSpeed:   3.3,
		}, nil
	}
	return &model.Weather{
		City:        city,
		Temperature: 17.5,
		FeelsLike:   17,
		Humidity:    65,
		Description: "Pleasant weather conditions expected.",
		WindSpeed:   3.3,
	}, nil
}

// MockNews отдаёт заготовленный список статей.
type MockNews struct {
	Delay Delayer
}

var mockHeadlines = []model.Article{
	{Title: "New Family-Friendly Museums Open This Season", Source: "Travel News", Description: "Several interactive museums opened, perfect for families with children."},
	{Title: "Best Time to Visit: December Travel Guide", Source: "Tourism Board", Description: "December offers winter illuminations and fewer crowds at major attractions."},
	{Title: "Metro Announces Extended Hours for Holiday Season", Source: "Transportation Weekly", Description: "Lines will operate until 1 AM during the holiday season."},
	{Title: "Top 10 Family Activities This Winter", Source: "Family Travel", Description: "Discover the best activities for kids."},
	{Title: "Hotel Prices Drop 15% in Early December", Source: "Hotel Insider", Description: "Great deals on accommodations before the peak season."},
}

func (m *MockNews) SearchNews(ctx context.Context, q model.NewsQuery) (*model.NewsDigest, error) {
	if err := delay(ctx, m.Delay); err != nil {
		return nil, err
	}

	n := q.PageSize
	if n <= 0 || n > len(mockHeadlines) {
		n = len(mockHeadlines)
	}
	articles := make([]model.Article, n)
	copy(articles, mockHeadlines[:n])
	return &model.NewsDigest{
		TotalResults: len(mockHeadlines),
		Articles:     articles,
		Query:        q.Query,
	}, nil
}

// MockRatesUpdated время last_update тестовых курсов. Оно постоянно,
// чтобы одинаковые запросы давали одинаковый ответ.
var MockRatesUpdated = time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)

// MockExchange отдаёт курс USD→JPY 149.5, остальные пары 1.0.
type MockExchange struct {
	Delay Delayer
	// Now задаёт время last_update; по умолчанию MockRatesUpdated.
	Now func() time.Time
}

func (m *MockExchange) ExchangeRate(ctx context.Context, from, to string) (*model.ExchangeRate, error) {
	if err := delay(ctx, m.Delay); err != nil {
		return nil, err
	}

	rate := 1.0
	if from == "USD" && to == "JPY" {
		rate = 149.5
	}
	updated := MockRatesUpdated
	if m.Now != nil {
		updated = m.Now()
	}
	return &model.ExchangeRate{
		Base:       from,
		Target:     to,
		Rate:       rate,
		LastUpdate: updated.UTC().Format(time.RFC1123),
	}, nil
}

func delay(ctx context.Context, d Delayer) error {
	if d == nil {
		return nil
	}
	if err := d.Delay(ctx); err != nil {
		return fmt.Errorf("mock delay interrupted: %w", err)
	}
	return nil
}
