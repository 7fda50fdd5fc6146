package provider

import (
	"context"
	"time"
)

// Delayer имитирует сетевую задержку тестовых поставщиков.
type Delayer interface {
	Delay(ctx context.Context) error
}

// FixedDelay ждёт фиксированное время или отмены контекста.
type FixedDelay time.Duration

func (d FixedDelay) Delay(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(d))
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoDelay возвращается сразу. Используется в тестах.
type NoDelay struct{}

func (NoDelay) Delay(context.Context) error { return nil }

// DelayFunc адаптирует функцию к Delayer.
type DelayFunc func(ctx context.Context) error

func (f DelayFunc) Delay(ctx context.Context) error { return f(ctx) }
