package cache

import "context"

// Load читает значение из кэша, а при промахе вызывает loader и кэширует результат
//
// Результат не кэшируется, если за время загрузки регион ключа был инвалидирован:
// загрузка могла прочитать данные до мутации.
// Ошибки loader не кэшируются. Если в кэше лежит значение другого типа, оно перезагружается.
func Load[T any](ctx context.Context, c *Coordinator, key Key, loader func(ctx context.Context) (T, error)) (T, error) {
	if c == nil {
		return loader(ctx)
	}

	if cached, ok := c.Get(key); ok {
		if value, ok := cached.(T); ok {
			return value, nil
		}
	}

	gen := c.Generation(key.Region)

	value, err := loader(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if !c.putIfGeneration(key, value, gen) && c.logger != nil {
		c.logger.Info("Load: skip caching %s, region %s was invalidated during load", key.String(), key.Region)
	}

	return value, nil
}
