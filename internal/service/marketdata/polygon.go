package marketdata

import (
	"context"
	"fmt"
	"time"

	"FundPull/internal/domain/models"
	dservice "FundPull/internal/domain/service"
	pkghttp "FundPull/pkg/http"
	"FundPull/pkg/logger"
)

// polygonSymbols maps our canonical tickers to Polygon aggregate symbols.
var polygonSymbols = map[string]string{
	models.TickerDXY:    "I:DXY",
	models.TickerWTI:    "C:CLUSD",
	models.TickerGold:   "C:XAUUSD",
	models.TickerCopper: "C:HGUSD",
	models.TickerSPX:    "I:SPX",
	models.TickerUST10Y: "I:TNX",
	models.TickerVIX:    "I:VIX",
}

// PolygonSource reads daily close aggregates from Polygon. It is the primary
// market-data provider when an API key is configured.
type PolygonSource struct {
	baseURL string
	apiKey  string
	client  *pkghttp.Client
	logger  *logger.Logger
}

func NewPolygonSource(baseURL, apiKey string, client *pkghttp.Client, log *logger.Logger) dservice.MarketSource {
	return &PolygonSource{baseURL: baseURL, apiKey: apiKey, client: client, logger: log}
}

func (s *PolygonSource) Name() string { return "polygon" }

type polygonAgg struct {
	Close float64 `json:"c"`
}

type polygonResponse struct {
	Status  string       `json:"status"`
	Results []polygonAgg `json:"results"`
}

// PriceWindow returns the latest and earliest daily closes inside the
// trailing window.
func (s *PolygonSource) PriceWindow(ctx context.Context, ticker string, days int) (float64, float64, error) {
	sym, ok := polygonSymbols[ticker]
	if !ok {
		return 0, 0, fmt.Errorf("polygon: unmapped ticker %q", ticker)
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)
	url := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s",
		s.baseURL, sym, from.Format("2006-01-02"), to.Format("2006-01-02"))

	var resp polygonResponse
	err := s.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    url,
		QueryParams: map[string][]string{
			"adjusted": {"true"},
			"sort":     {"asc"},
			"apiKey":   {s.apiKey},
		},
	}, &resp)
	if err != nil {
		return 0, 0, fmt.Errorf("polygon %s: %w", ticker, err)
	}
	if len(resp.Results) < 2 {
		return 0, 0, fmt.Errorf("polygon %s: %d bars in window", ticker, len(resp.Results))
	}
	earliest := resp.Results[0].Close
	latest := resp.Results[len(resp.Results)-1].Close
	// I:TNX quotes the 10Y yield at 10x its percent value.
	if ticker == models.TickerUST10Y {
		latest /= 10
		earliest /= 10
	}
	return latest, earliest, nil
}
