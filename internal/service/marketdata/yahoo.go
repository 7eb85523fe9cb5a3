package marketdata

import (
	"context"
	"fmt"

	"FundPull/internal/domain/models"
	dservice "FundPull/internal/domain/service"
	pkghttp "FundPull/pkg/http"
	"FundPull/pkg/logger"
)

// yahooSymbols maps canonical tickers to Yahoo chart symbols.
var yahooSymbols = map[string]string{
	models.TickerDXY:    "DX-Y.NYB",
	models.TickerWTI:    "CL=F",
	models.TickerGold:   "GC=F",
	models.TickerCopper: "HG=F",
	models.TickerSPX:    "^GSPC",
	models.TickerUST10Y: "^TNX",
	models.TickerVIX:    "^VIX",
}

// YahooSource reads daily closes from the public chart endpoint. It needs no
// key and serves as the fallback provider.
type YahooSource struct {
	baseURL string
	client  *pkghttp.Client
	logger  *logger.Logger
}

func NewYahooSource(baseURL string, client *pkghttp.Client, log *logger.Logger) dservice.MarketSource {
	return &YahooSource{baseURL: baseURL, client: client, logger: log}
}

func (s *YahooSource) Name() string { return "yahoo" }

type yahooChart struct {
	Chart struct {
		Result []struct {
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// PriceWindow returns the latest and earliest non-null closes for the range.
func (s *YahooSource) PriceWindow(ctx context.Context, ticker string, days int) (float64, float64, error) {
	sym, ok := yahooSymbols[ticker]
	if !ok {
		return 0, 0, fmt.Errorf("yahoo: unmapped ticker %q", ticker)
	}

	var resp yahooChart
	err := s.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", s.baseURL, sym),
		QueryParams: map[string][]string{
			"range":    {fmt.Sprintf("%dd", days)},
			"interval": {"1d"},
		},
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (compatible; fundpull/1.0)",
		},
	}, &resp)
	if err != nil {
		return 0, 0, fmt.Errorf("yahoo %s: %w", ticker, err)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return 0, 0, fmt.Errorf("yahoo %s: empty chart", ticker)
	}

	closes := resp.Chart.Result[0].Indicators.Quote[0].Close
	var vals []float64
	for _, c := range closes {
		if c != nil {
			vals = append(vals, *c)
		}
	}
	if len(vals) < 2 {
		return 0, 0, fmt.Errorf("yahoo %s: %d bars in window", ticker, len(vals))
	}
	latest, earliest := vals[len(vals)-1], vals[0]
	// ^TNX quotes the 10Y yield at 10x its percent value.
	if ticker == models.TickerUST10Y {
		latest /= 10
		earliest /= 10
	}
	return latest, earliest, nil
}
