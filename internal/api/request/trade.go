package request

// CreateTradeRequest is the payload for recording a ledger event. For
// dividend events quantity is the share count the dividend was paid on and
// unitPrice the per-share amount.
type CreateTradeRequest struct {
	StockCode string  `json:"stockCode"`
	Direction string  `json:"direction"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Fee       float64 `json:"fee"`
	StampTax  float64 `json:"stampTax"`
	TradeTime string  `json:"tradeTime"`
}
