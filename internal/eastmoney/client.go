// Package eastmoney is the market snapshot provider: a thin client for the
// Eastmoney push2 quote and fund-flow kline endpoints.
package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/model"
)

const (
	defaultQuoteURL = "https://push2.eastmoney.com"
	defaultHistURL  = "https://push2his.eastmoney.com"

	// Public token the quote pages send with fflow requests.
	utToken = "fa5fd1943c7b386f172d6893dbfba10b"
)

// Client fetches quotes and fund-flow klines. Provider failures surface as
// errors matching apperrors.ErrQuoteUnavailable; callers are expected to
// degrade rather than abort a whole report batch.
type Client struct {
	httpClient *http.Client
	quoteURL   string
	histURL    string
}

// NewClient creates a client with a 10 second timeout, matching the
// fail-fast stance of the fetch layer: a slow provider should not stall
// report generation.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		quoteURL:   defaultQuoteURL,
		histURL:    defaultHistURL,
	}
}

// NewClientWithBaseURL creates a client pointed at alternate endpoints.
// Used by tests to target an httptest server.
func NewClientWithBaseURL(quoteURL, histURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		quoteURL:   quoteURL,
		histURL:    histURL,
	}
}

// SecID converts a normalized CODE.EXCHANGE symbol to the provider's
// market-prefixed security ID (1 = Shanghai, 0 = Shenzhen/Beijing).
func SecID(symbol string) (string, error) {
	code, exch, ok := strings.Cut(strings.ToUpper(symbol), ".")
	if !ok || len(code) != 6 {
		return "", fmt.Errorf("%w: %s", apperrors.ErrStockCodeInvalid, symbol)
	}
	if exch == "SH" {
		return "1." + code, nil
	}
	return "0." + code, nil
}

// GetQuote fetches the realtime quote basics for one symbol: latest price,
// previous close, change percent and total market cap.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	secid, err := SecID(symbol)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"secid":  {secid},
		"fields": {"f43,f58,f60,f116,f152,f170"},
	}
	body, err := c.get(ctx, c.quoteURL+"/api/qt/stock/get", params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrQuoteUnavailable, symbol, err)
	}

	var resp quoteResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Data == nil {
		return nil, fmt.Errorf("%w: %s: malformed quote payload", apperrors.ErrQuoteUnavailable, symbol)
	}

	return &model.Quote{
		Symbol:    symbol,
		Name:      resp.Data.Name,
		Price:     resp.Data.Price / 100.0,
		PrevClose: resp.Data.PrevClose / 100.0,
		PctChange: resp.Data.PctChange / 100.0,
		MarketCap: resp.Data.MarketCap,
		AsOf:      time.Now(),
	}, nil
}

// LatestMinuteFlow fetches the most recent minute-level fund-flow bucket
// breakdown for one symbol.
func (c *Client) LatestMinuteFlow(ctx context.Context, symbol string) (*model.MinuteFlow, error) {
	secid, err := SecID(symbol)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"secid":   {secid},
		"fields1": {"f1,f2,f3,f7"},
		"fields2": {"f51,f52,f53,f54,f55,f56,f57,f58"},
		"klt":     {"1"},
		"lmt":     {"1"},
		"ut":      {utToken},
	}
	body, err := c.get(ctx, c.quoteURL+"/api/qt/stock/fflow/kline/get", params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrQuoteUnavailable, symbol, err)
	}

	var resp flowResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Data == nil || len(resp.Data.Klines) == 0 {
		return nil, fmt.Errorf("%w: %s: no minute flow data", apperrors.ErrQuoteUnavailable, symbol)
	}

	parts := strings.Split(resp.Data.Klines[len(resp.Data.Klines)-1], ",")
	if len(parts) < 6 {
		return nil, fmt.Errorf("%w: %s: short kline row", apperrors.ErrQuoteUnavailable, symbol)
	}

	// Column layout: time, main, super-large, large, medium, small.
	return &model.MinuteFlow{
		Symbol:     symbol,
		Name:       resp.Data.Name,
		Time:       parts[0],
		Main:       toFloat(parts[1]),
		SuperLarge: toFloat(parts[2]),
		Large:      toFloat(parts[3]),
		Medium:     toFloat(parts[4]),
		Small:      toFloat(parts[5]),
	}, nil
}

// DailyFlow fetches the daily fund-flow history for one symbol. limit
// bounds the number of most recent rows returned; 0 means all available.
func (c *Client) DailyFlow(ctx context.Context, symbol string, limit int) ([]model.FundFlowDaily, error) {
	secid, err := SecID(symbol)
	if err != nil {
		return nil, err
	}
	code, exch, _ := strings.Cut(strings.ToUpper(symbol), ".")

	params := url.Values{
		"secid":   {secid},
		"fields1": {"f1,f2,f3,f7"},
		"fields2": {"f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61,f62,f63"},
		"klt":     {"101"},
		"lmt":     {"0"},
		"ut":      {utToken},
	}
	body, err := c.get(ctx, c.histURL+"/api/qt/stock/fflow/daykline/get", params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrQuoteUnavailable, symbol, err)
	}

	var resp flowResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Data == nil {
		return nil, fmt.Errorf("%w: %s: malformed daily flow payload", apperrors.ErrQuoteUnavailable, symbol)
	}

	klines := resp.Data.Klines
	if limit > 0 && len(klines) > limit {
		klines = klines[len(klines)-limit:]
	}

	rows := make([]model.FundFlowDaily, 0, len(klines))
	for _, line := range klines {
		row, err := parseDailyLine(line, code, exch, resp.Data.Name)
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseDailyLine decodes one daykline row. Column layout: date, main net,
// small net, medium net, large net, super-large net, then the matching
// percentages in the same order, then close and change percent.
func parseDailyLine(line, code, exch, name string) (model.FundFlowDaily, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 13 {
		return model.FundFlowDaily{}, fmt.Errorf("short daykline row: %q", line)
	}
	date, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return model.FundFlowDaily{}, fmt.Errorf("bad daykline date: %w", err)
	}

	return model.FundFlowDaily{
		Code:          code,
		Exchange:      exch,
		Date:          date,
		MainNet:       toFloat(parts[1]),
		SmallNet:      toFloat(parts[2]),
		MediumNet:     toFloat(parts[3]),
		LargeNet:      toFloat(parts[4]),
		SuperLargeNet: toFloat(parts[5]),
		MainPct:       toFloat(parts[6]),
		SmallPct:      toFloat(parts[7]),
		MediumPct:     toFloat(parts[8]),
		LargePct:      toFloat(parts[9]),
		SuperLargePct: toFloat(parts[10]),
		Close:         toFloat(parts[11]),
		PctChange:     toFloat(parts[12]),
		Name:          name,
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Referer", "https://quote.eastmoney.com/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// toFloat parses a kline field, treating anything unparseable (the provider
// emits "-" for halted stocks) as zero.
func toFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
