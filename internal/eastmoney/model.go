package eastmoney

// quoteResponse maps the push2 stock/get payload. Numeric fields arrive
// scaled: f43 (price) and f60 (previous close) in fen, f170 (change pct)
// in hundredths of a percent, f116 (total market cap) in yuan.
type quoteResponse struct {
	Data *struct {
		Price     float64 `json:"f43"`
		Name      string  `json:"f58"`
		PrevClose float64 `json:"f60"`
		MarketCap float64 `json:"f116"`
		PctChange float64 `json:"f170"`
	} `json:"data"`
}

// flowResponse maps the fflow kline payloads (minute and daily share the
// envelope; only the kline column layout differs).
type flowResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}
