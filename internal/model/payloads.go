package model

// Weather содержит текущую погоду в городе.
type Weather struct {
	City        string  `json:"city"`
	Country     string  `json:"country,omitempty"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"`
	ObservedAt  string  `json:"observed_at,omitempty"`
}

type Article struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// NewsQuery задаёт параметры поиска новостей.
type NewsQuery struct {
	Query    string
	Language string
	PageSize int
}

type NewsDigest struct {
	TotalResults int       `json:"total_results"`
	Articles     []Article `json:"articles"`
	Query        string    `json:"query"`
}

// ExchangeRate содержит курс и, если задана сумма, результат конвертации.
type ExchangeRate struct {
	Base            string  `json:"base"`
	Target          string  `json:"target"`
	Rate            float64 `json:"rate"`
	Amount          float64 `json:"amount"`
	ConvertedAmount float64 `json:"converted_amount"`
	LastUpdate      string  `json:"last_update,omitempty"`
}
