package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Listener nhận LISTEN/NOTIFY signals cho một channel.
// Repositories gửi NOTIFY sau mỗi write; subscribers dùng signal này để
// reload FULL snapshot của collection (replace, không patch).
type Listener struct {
	pool    *pgxpool.Pool
	channel string
}

func NewListener(pool *pgxpool.Pool, channel string) *Listener {
	return &Listener{pool: pool, channel: channel}
}

// Listen chiếm một dedicated connection và trả về signal channel.
// Signals được coalesce: nhiều NOTIFY liên tiếp có thể gộp thành một signal
// (subscriber luôn reload full state nên không mất thông tin).
// Channel đóng khi ctx bị cancel hoặc connection chết - caller chịu trách
// nhiệm re-subscribe (restartable per contract).
func (l *Listener) Listen(ctx context.Context) (<-chan struct{}, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire listen connection: %w", err)
	}

	if _, err := conn.Exec(ctx, fmt.Sprintf(`LISTEN %q`, l.channel)); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to listen on %s: %w", l.channel, err)
	}

	signals := make(chan struct{}, 1)

	go func() {
		defer conn.Release()
		defer close(signals)

		for {
			if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
				// ctx cancelled hoặc connection lỗi - dừng, để caller re-subscribe
				return
			}

			select {
			case signals <- struct{}{}:
			default:
				// đã có signal pending - coalesce
			}
		}
	}()

	return signals, nil
}

// Notify gửi notification trên channel. Gọi sau mỗi successful write
// để các open subscriptions thấy thay đổi theo commit order.
func Notify(ctx context.Context, pool *pgxpool.Pool, channel, payload string) error {
	_, err := pool.Exec(ctx, `SELECT pg_notify($1, $2)`, channel, payload)
	if err != nil {
		return fmt.Errorf("failed to notify %s: %w", channel, err)
	}
	return nil
}
