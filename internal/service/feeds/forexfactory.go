package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"FundPull/internal/domain/models"
	dservice "FundPull/internal/domain/service"
	pkghttp "FundPull/pkg/http"
	"FundPull/pkg/logger"
	"FundPull/pkg/util"
)

// countryToCurrency maps the calendar country codes to our currency universe.
// Feeds already publish currency codes for the majors; the two-letter forms
// come from the backup provider.
var countryToCurrency = map[string]string{
	"USD": "USD", "EUR": "EUR", "GBP": "GBP", "JPY": "JPY",
	"CAD": "CAD", "AUD": "AUD", "NZD": "NZD", "CHF": "CHF",
	"US": "USD", "EMU": "EUR", "DE": "EUR", "FR": "EUR", "IT": "EUR", "ES": "EUR",
	"UK": "GBP", "GB": "GBP", "JP": "JPY", "CA": "CAD", "AU": "AUD",
	"NZ": "NZD", "CH": "CHF",
}

// ForexFactoryFeed pulls the weekly economic calendar XML.
type ForexFactoryFeed struct {
	url    string
	client *pkghttp.Client
	logger *logger.Logger
}

func NewForexFactoryFeed(url string, client *pkghttp.Client, log *logger.Logger) dservice.CalendarFeed {
	return &ForexFactoryFeed{url: url, client: client, logger: log}
}

func (f *ForexFactoryFeed) Name() string { return "forexfactory" }

type ffEvent struct {
	Title    string `xml:"title"`
	Country  string `xml:"country"`
	Date     string `xml:"date"` // MM-DD-YYYY
	Time     string `xml:"time"`
	Impact   string `xml:"impact"`
	Forecast string `xml:"forecast"`
	Previous string `xml:"previous"`
	Actual   string `xml:"actual"`
}

type ffWeekly struct {
	XMLName xml.Name  `xml:"weeklyevents"`
	Events  []ffEvent `xml:"event"`
}

// Fetch downloads the weekly XML and normalizes it to calendar events.
// Rows missing a country or title are dropped; rows for currencies outside
// the tracked universe are dropped too.
func (f *ForexFactoryFeed) Fetch(ctx context.Context) ([]models.EconomicEvent, error) {
	var raw []byte
	err := f.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    f.url,
		Headers: map[string]string{
			"Accept": "application/xml",
		},
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("forexfactory fetch: %w", err)
	}

	var weekly ffWeekly
	if err := xml.Unmarshal(raw, &weekly); err != nil {
		// Malformed body is a provider hiccup; report an empty week and let
		// the caller fall back rather than abort.
		f.logger.Warn("forexfactory malformed xml", logger.Error(err))
		return nil, nil
	}

	events := make([]models.EconomicEvent, 0, len(weekly.Events))
	dropped := 0
	for _, e := range weekly.Events {
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
		date, ok := util.ParseEventDate(strings.TrimSpace(e.Date))
		if !ok {
			dropped++
			continue
		}
		events = append(events, models.EconomicEvent{
			Country:   strings.ToUpper(country),
			Currency:  currency,
			Title:     title,
			Impact:    normalizeImpact(e.Impact),
			Actual:    strings.TrimSpace(e.Actual),
			Forecast:  strings.TrimSpace(e.Forecast),
			Previous:  strings.TrimSpace(e.Previous),
			EventDate: date,
			EventTime: strings.TrimSpace(e.Time),
		})
	}

	f.logger.Info("calendar feed fetched",
		logger.String("feed", f.Name()),
		logger.Int("events", len(events)),
		logger.Int("dropped", dropped))
	return events, nil
}

func normalizeImpact(s string) models.Impact {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "red":
		return models.ImpactHigh
	case "medium", "orange", "yellow":
		return models.ImpactMedium
	default:
		return models.ImpactLow
	}
}
