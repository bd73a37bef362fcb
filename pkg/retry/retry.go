package retry

import (
	"context"
	"math/rand"
	"time"
)

// Policy cấu hình retry với exponential backoff.
// Store/upload failures không được tự retry ngầm - caller chọn policy.
type Policy struct {
	MaxAttempts int           // tổng số lần thử (>= 1)
	BaseDelay   time.Duration // delay ban đầu
	MaxDelay    time.Duration // trần cho backoff
	Jitter      bool          // thêm random jitter để tránh thundering herd
}

// DefaultPolicy: 3 attempts, 500ms base, 10s cap
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Jitter:      true,
	}
}

// NoRetry thử đúng 1 lần
func NoRetry() Policy {
	return Policy{MaxAttempts: 1}
}

// delayFor tính backoff: base * 2^(attempt-1), capped tại MaxDelay
func (p Policy) delayFor(attempt int) time.Duration {
	// cap exponent để không overflow khi MaxAttempts rất lớn
	exp := attempt - 1
	if exp > 20 {
		exp = 20
	}
	delay := p.BaseDelay * time.Duration(1<<uint(exp))
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	// jitter trong khoảng [delay/2, delay); delay quá nhỏ thì giữ nguyên
	if half := delay / 2; p.Jitter && half > 0 {
		delay = half + time.Duration(rand.Int63n(int64(half)))
	}
	return delay
}

// Do chạy fn tối đa MaxAttempts lần. Dừng ngay khi fn trả nil,
// khi context bị cancel, hoặc khi hết attempts (trả lỗi cuối cùng).
func Do(ctx context.Context, p Policy, fn func() error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-time.After(p.delayFor(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}
