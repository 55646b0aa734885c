// Package entity defines the domain models for the candles feature.
package entity

import "time"

// Candle represents one daily OHLCV (Open, High, Low, Close, Volume) bar
// for a stock symbol. A fetched series is ordered by Time ascending with
// no duplicate dates.
type Candle struct {
	Time   time.Time // Calendar day of this bar (no time-of-day component)
	Open   float64   // Opening price
	High   float64   // Highest price during the day
	Low    float64   // Lowest price during the day
	Close  float64   // Closing price
	Volume int64     // Trading volume
}
