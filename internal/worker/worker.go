package worker

import (
	"context"
)

// Worker - фоновый обработчик событий из Redis Streams
type Worker interface {
	// Start блокируется до остановки воркера или отмены ctx
	Start(ctx context.Context) error

	// Stop сигнализирует воркеру завершить текущее сообщение и выйти
	Stop() error

	Name() string
}
