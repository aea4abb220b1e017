package cachebus

import "github.com/m04kA/SMC-DentalService/internal/cache"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Applier применяет полученные инвалидации к локальному кэшу (*cache.Coordinator)
type Applier interface {
	ApplyRemote(invalidations []cache.Invalidation)
}
