// Package rss renders the minute fund-flow watchlist feed as RSS 2.0.
package rss

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/cuixiaoyuan/fundflow/internal/model"
)

type rssRoot struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	LastBuildDate string `xml:"lastBuildDate"`
	Items         []Item `xml:"item"`
}

// Item is one feed entry.
type Item struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
}

// Feed accumulates items for one render.
type Feed struct {
	title string
	now   time.Time
	items []Item
}

// NewFeed creates a feed for one user's watchlist.
func NewFeed(username string, now time.Time) *Feed {
	return &Feed{title: "资金流RSS - " + username, now: now}
}

// Append adds one item in order.
func (f *Feed) Append(item Item) {
	f.items = append(f.items, item)
}

// Marshal renders the feed with an XML declaration.
func (f *Feed) Marshal() ([]byte, error) {
	root := rssRoot{
		Version: "2.0",
		Channel: channel{
			Title:         f.title,
			Link:          "https://quote.eastmoney.com/",
			Description:   "A股分钟级资金流",
			LastBuildDate: f.now.Format(time.RFC1123Z),
			Items:         f.items,
		},
	}

	body, err := xml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rss feed: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}

// FlowItem builds the feed entry for one watchlist stock. The bucket labels
// are deliberately crossed with other buckets' values (超大单 shows the
// small-order figure and so on); feed consumers rely on this layout, so it
// is kept exactly as the original description text had it.
func FlowItem(name, symbol string, flow model.MinuteFlow, quote *model.Quote, position *model.PositionReport, now time.Time) Item {
	priceTxt, chgTxt, mcapTxt := "-", "-", "-"
	if quote != nil {
		priceTxt = fmt.Sprintf("%.2f", quote.Price)
		chgTxt = fmt.Sprintf("%.2f%%", quote.PctChange)
		mcapTxt = fmt.Sprintf("%.2f亿", quote.MarketCap/1e8)
	}

	desc := fmt.Sprintf(
		"最新价:%s 涨跌幅:%s 总市值:%s | 主力:%s 超大单:%s 大单:%s 中单:%s 小单:%s (单位:亿元)",
		priceTxt, chgTxt, mcapTxt,
		yi(flow.Main), yi(flow.Small), yi(flow.Medium), yi(flow.Large), yi(flow.SuperLarge),
	)

	if position != nil && position.Quantity.Sign() > 0 {
		rounded := position.Rounded()
		desc += fmt.Sprintf(
			" | 持仓:%.0f 成本:%.2f 浮动盈亏:%d (%.2f%%)",
			rounded.Quantity, rounded.AvgCost, rounded.Unrealized, rounded.UnrealizedPct,
		)
	}

	title := fmt.Sprintf("%s / %s %s", name, flow.Name, flow.Time)

	return Item{
		Title:       title,
		Description: desc,
		GUID:        symbol + "_" + flow.Time,
		PubDate:     now.Format(time.RFC1123Z),
	}
}

// yi formats a yuan amount in 亿元 with two decimals.
func yi(v float64) string {
	return fmt.Sprintf("%.2f", v/1e8)
}
