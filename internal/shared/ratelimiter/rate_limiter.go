package ratelimiter

import (
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface は、外部API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiter は固定ウィンドウ方式で操作の頻度を制限します。
// 市場データプロバイダの無料プランはリクエスト数に分あたりの上限があるため、
// プロバイダ呼び出しはすべてこのリミッタを経由します。
// 1つのインスタンスを複数のリクエストハンドラが共有するため、
// カウンタはミューテックスで保護します。
type RateLimiter struct {
	limit    int           // ウィンドウあたりの上限
	interval time.Duration // ウィンドウをリセットする単位

	mu        sync.Mutex
	count     int
	lastReset time.Time
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// WaitIfNeeded はレートリミットの上限に達しているかを確認し、必要であれば
// ウィンドウの残り時間だけブロックします。複数ゴルーチンから安全に
// 呼び出せます（待機中はロックを保持し、後続の呼び出しも直列化されます）。
func (rl *RateLimiter) WaitIfNeeded() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		sleep := rl.interval - now.Sub(rl.lastReset)
		if sleep > 0 {
			slog.Warn("rate limit reached, sleeping", "limit", rl.limit, "sleep", sleep)
			time.Sleep(sleep)
		}
		rl.count = 1
		rl.lastReset = time.Now()
	}
}
