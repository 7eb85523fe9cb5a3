package feeds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FundPull/internal/domain/models"
	dservice "FundPull/internal/domain/service"
	pkghttp "FundPull/pkg/http"
	"FundPull/pkg/logger"
)

// RapidAPIFeed is the backup JSON calendar, used when the primary XML feed
// fails or returns an empty week.
type RapidAPIFeed struct {
	url    string
	host   string
	apiKey string
	client *pkghttp.Client
	logger *logger.Logger
}

func NewRapidAPIFeed(url, host, apiKey string, client *pkghttp.Client, log *logger.Logger) dservice.CalendarFeed {
	return &RapidAPIFeed{url: url, host: host, apiKey: apiKey, client: client, logger: log}
}

func (f *RapidAPIFeed) Name() string { return "rapidapi" }

type raEvent struct {
	Title      string `json:"title"`
	Country    string `json:"country"`
	Date       string `json:"date"` // ISO 8601
	Importance int    `json:"importance"`
	Actual     string `json:"actual"`
	Forecast   string `json:"forecast"`
	Previous   string `json:"previous"`
}

type raResponse struct {
	Result []raEvent `json:"result"`
}

// Fetch queries the calendar for a window around now and normalizes the
// response. importance 1/0/-1 maps to High/Medium/Low.
func (f *RapidAPIFeed) Fetch(ctx context.Context) ([]models.EconomicEvent, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -3).Format("2006-01-02")
	to := now.AddDate(0, 0, 4).Format("2006-01-02")

	var resp raResponse
	err := f.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    f.url,
		QueryParams: map[string][]string{
			"from": {from},
			"to":   {to},
		},
		Headers: map[string]string{
			"x-rapidapi-host": f.host,
			"x-rapidapi-key":  f.apiKey,
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("rapidapi fetch: %w", err)
	}

	events := make([]models.EconomicEvent, 0, len(resp.Result))
	dropped := 0
	for _, e := range resp.Result {
		title := strings.TrimSpace(e.Title)
		country := strings.TrimSpace(e.Country)
		if title == "" || country == "" {
			dropped++
			continue
		}
		currency, ok := countryToCurrency[strings.ToUpper(country)]
		if !ok {
			dropped++
			continue
		}
		date, clock, err := splitISODate(e.Date)
		if err != nil {
			dropped++
			continue
		}
		events = append(events, models.EconomicEvent{
			Country:   strings.ToUpper(country),
			Currency:  currency,
			Title:     title,
			Impact:    importanceToImpact(e.Importance),
			Actual:    strings.TrimSpace(e.Actual),
			Forecast:  strings.TrimSpace(e.Forecast),
			Previous:  strings.TrimSpace(e.Previous),
			EventDate: date,
			EventTime: clock,
		})
	}

	f.logger.Info("calendar feed fetched",
		logger.String("feed", f.Name()),
		logger.Int("events", len(events)),
		logger.Int("dropped", dropped))
	return events, nil
}

// splitISODate turns "2025-08-29T12:30:00Z" into date and clock parts.
// A bare date is accepted with an empty clock.
func splitISODate(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format("2006-01-02"), t.UTC().Format("15:04"), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02"), "", nil
	}
	return "", "", fmt.Errorf("bad event date %q", s)
}

func importanceToImpact(n int) models.Impact {
	switch {
	case n >= 1:
		return models.ImpactHigh
	case n == 0:
		return models.ImpactMedium
	default:
		return models.ImpactLow
	}
}
