package cache

import "context"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher рассылает инвалидации другим экземплярам сервиса
type Publisher interface {
	Publish(ctx context.Context, invalidations []Invalidation) error
}
