// Package engine computes technical indicator series over daily close
// prices: simple moving average, exponential moving average, and the
// relative strength index.
//
// Every transform returns a Series aligned 1:1 with its input. Positions
// with insufficient history hold NaN; callers treat NaN as "undefined"
// and must not compare it directly. The transforms are pure and never
// return an error: degenerate inputs (empty series, window longer than
// the series, a flat RSI window) degrade to NaN values instead.
package engine

import (
	"math"

	"stock_dashboard/internal/feature/candles/domain/entity"
)

// Series is an indicator value per input bar, NaN where undefined.
type Series []float64

// Closes extracts the close prices from a candle series, preserving order.
func Closes(candles []entity.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

// SMA computes the simple moving average of closes over a trailing window.
// The first window-1 positions are NaN; a window longer than the series
// yields an all-NaN result.
func SMA(closes []float64, window int) Series {
	out := undefinedSeries(len(closes))
	if window < 1 {
		return out
	}
	var sum float64
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// EMA computes the exponential moving average of closes with smoothing
// factor 2/(window+1), seeded from the first close:
//
//	E[0] = close[0]
//	E[i] = alpha*close[i] + (1-alpha)*E[i-1]
//
// Unlike SMA there is no warm-up gap: every position is defined. This is
// the recursive (adjust=false) definition, not the bias-corrected
// weighted-average variant.
func EMA(closes []float64, window int) Series {
	out := undefinedSeries(len(closes))
	if window < 1 || len(closes) == 0 {
		return out
	}
	alpha := 2.0 / float64(window+1)
	out[0] = closes[0]
	for i := 1; i < len(closes); i++ {
		out[i] = alpha*closes[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI computes the relative strength index of closes over a trailing
// window: per-bar deltas are split into gains and losses, each averaged
// with a simple moving window, and RSI = 100 - 100/(1+RS) where
// RS = avgGain/avgLoss.
//
// The first delta needs two bars, so values are defined from index
// `window` on. IEEE arithmetic carries the edge cases: a window with
// losses but no gains gives RSI 0, gains but no losses gives RS=+Inf and
// RSI exactly 100, and a completely flat window gives RS=0/0=NaN, which
// stays NaN in the output.
func RSI(closes []float64, window int) Series {
	out := undefinedSeries(len(closes))
	if window < 1 || len(closes) == 0 {
		return out
	}
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gains[i] = math.Max(delta, 0)
		losses[i] = math.Max(-delta, 0)
	}

	var gainSum, lossSum float64
	for i := 1; i < len(closes); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > window {
			gainSum -= gains[i-window]
			lossSum -= losses[i-window]
		}
		if i >= window {
			avgGain := gainSum / float64(window)
			avgLoss := lossSum / float64(window)
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// Latest returns the most recent defined value of the series. ok is false
// when the series is empty or holds no defined value at all. The last
// position itself can be NaN (a flat RSI window), so callers must use
// this instead of indexing the final element.
func (s Series) Latest() (float64, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if !math.IsNaN(s[i]) {
			return s[i], true
		}
	}
	return 0, false
}

func undefinedSeries(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
