package domain

import "errors"

// Виды ошибок ядра. Каждая ошибка пакетов оборачивает ровно один вид,
// поэтому errors.Is(err, domain.ErrConflict) классифицирует любую ошибку
var (
	// ErrValidation некорректные входные данные (никогда не повторяется автоматически)
	ErrValidation = errors.New("validation error")

	// ErrConflict нарушение бизнес-правила: пересечение слотов, недопустимый переход статуса
	ErrConflict = errors.New("conflict")

	// ErrNotFound сущность с указанным ID не существует
	ErrNotFound = errors.New("not found")

	// ErrTransientStore временная недоступность хранилища (можно повторить снаружи)
	ErrTransientStore = errors.New("transient store error")
)

// Kind возвращает вид ошибки или nil, если ошибка не классифицирована
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrConflict, ErrNotFound, ErrTransientStore} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
