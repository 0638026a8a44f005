package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
)

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	user := testutil.NewUser().Build(t, db)
//	user := testutil.NewUser().WithUsername("alice").WithRSSToken("tok").Build(t, db)
type UserBuilder struct {
	user model.User
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{user: model.User{
		ID:           MakeID(),
		Username:     MakeUsername("user"),
		PasswordHash: "$2a$10$unusable.test.hash.value.0000000000000000000000000",
		CreatedAt:    time.Now().UTC(),
	}}
}

// WithUsername sets a custom username.
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.user.Username = username
	return b
}

// WithPasswordHash sets a custom password hash.
func (b *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	b.user.PasswordHash = hash
	return b
}

// WithRSSToken sets a plain feed token.
func (b *UserBuilder) WithRSSToken(token string) *UserBuilder {
	b.user.RSSToken = token
	return b
}

// WithRSSTokenHash sets a hashed feed token.
func (b *UserBuilder) WithRSSTokenHash(hash string) *UserBuilder {
	b.user.RSSTokenHash = hash
	return b
}

// Build inserts the user and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	if err := repository.NewUserRepository(db).CreateUser(b.user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return b.user
}

// TradeEventBuilder provides a fluent interface for creating test ledger
// events. Amount fields take float64 for test readability and are converted
// to decimals on build.
type TradeEventBuilder struct {
	event model.TradeEvent
}

// NewTradeEvent creates a TradeEventBuilder for a default buy of
// 100 shares at 10 yuan.
func NewTradeEvent(userID string) *TradeEventBuilder {
	return &TradeEventBuilder{event: model.TradeEvent{
		ID:        MakeID(),
		UserID:    userID,
		StockCode: "600519.SH",
		Direction: model.DirectionBuy,
		Quantity:  decimal.NewFromInt(100),
		UnitPrice: decimal.NewFromInt(10),
		Fee:       decimal.Zero,
		StampTax:  decimal.Zero,
		TradeTime: time.Date(2026, 8, 3, 9, 30, 0, 0, time.UTC),
		CreatedAt: time.Now().UTC(),
	}}
}

// WithStockCode sets the stock.
func (b *TradeEventBuilder) WithStockCode(code string) *TradeEventBuilder {
	b.event.StockCode = code
	return b
}

// WithDirection sets the event direction.
func (b *TradeEventBuilder) WithDirection(d model.Direction) *TradeEventBuilder {
	b.event.Direction = d
	return b
}

// WithQuantity sets the share quantity.
func (b *TradeEventBuilder) WithQuantity(qty float64) *TradeEventBuilder {
	b.event.Quantity = decimal.NewFromFloat(qty)
	return b
}

// WithUnitPrice sets the per-share price.
func (b *TradeEventBuilder) WithUnitPrice(price float64) *TradeEventBuilder {
	b.event.UnitPrice = decimal.NewFromFloat(price)
	return b
}

// WithFee sets the commission.
func (b *TradeEventBuilder) WithFee(fee float64) *TradeEventBuilder {
	b.event.Fee = decimal.NewFromFloat(fee)
	return b
}

// WithStampTax sets the stamp tax.
func (b *TradeEventBuilder) WithStampTax(tax float64) *TradeEventBuilder {
	b.event.StampTax = decimal.NewFromFloat(tax)
	return b
}

// WithTradeTime sets the trade timestamp.
func (b *TradeEventBuilder) WithTradeTime(t time.Time) *TradeEventBuilder {
	b.event.TradeTime = t
	return b
}

// Build inserts the event and returns it.
func (b *TradeEventBuilder) Build(t *testing.T, db *sql.DB) model.TradeEvent {
	t.Helper()

	if err := repository.NewTradeRepository(db).InsertTradeEvent(b.event); err != nil {
		t.Fatalf("Failed to create test trade event: %v", err)
	}
	return b.event
}

// AddWatchItem inserts one watchlist row directly.
func AddWatchItem(t *testing.T, db *sql.DB, userID, symbol, name string) model.WatchItem {
	t.Helper()

	item := model.WatchItem{ID: MakeID(), UserID: userID, Symbol: symbol, Name: name}
	_, err := db.Exec(
		`INSERT INTO watchlist (id, user_id, symbol, name) VALUES (?, ?, ?, ?)`,
		item.ID, item.UserID, item.Symbol, item.Name,
	)
	if err != nil {
		t.Fatalf("Failed to create test watch item: %v", err)
	}
	return item
}
