// Package ratelimit ограничивает число попыток оформить заказ с одного клиента
// за окно фиксированной длины.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Limiter считает попытку для ключа и сообщает, разрешена ли она.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type record struct {
	count     int
	resetTime time.Time
}

// Memory хранит счетчики в памяти процесса. После рестарта счетчики обнуляются,
// между инстансами не разделяются.
type Memory struct {
	mu      sync.Mutex
	records map[string]*record
	window  time.Duration
	max     int
	now     func() time.Time
}

// NewMemory создает лимитер, пропускающий max попыток за window.
func NewMemory(window time.Duration, max int) *Memory {
	return &Memory{
		records: make(map[string]*record),
		window:  window,
		max:     max,
		now:     time.Now,
	}
}

// WithClock подменяет источник времени (для тестов).
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	if !ok || now.After(rec.resetTime) {
		m.records[key] = &record{count: 1, resetTime: now.Add(m.window)}
		return true, nil
	}

	rec.count++
	return rec.count <= m.max, nil
}

// Sweep удаляет записи с истекшим окном и возвращает их количество.
func (m *Memory) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, rec := range m.records {
		if now.After(rec.resetTime) {
			delete(m.records, key)
			removed++
		}
	}
	return removed
}

// Run периодически чистит таблицу, пока не отменен ctx.
func (m *Memory) Run(ctx context.Context, log *slog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.Sweep(); removed > 0 {
				log.Debug("rate limit records swept", slog.Int("removed", removed))
			}
		}
	}
}
