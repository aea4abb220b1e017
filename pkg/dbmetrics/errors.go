package dbmetrics

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, которые нужно различать
const (
	codeUniqueViolation      = "23505"
	codeExclusionViolation   = "23P01"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	classConnectionException = "08"
)

// IsUniqueViolation нарушение уникального индекса или exclusion constraint
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == codeUniqueViolation || string(pqErr.Code) == codeExclusionViolation
}

// IsSerializationFailure конфликт сериализуемой транзакции (её можно повторить целиком)
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == codeSerializationFailure || string(pqErr.Code) == codeDeadlockDetected
}

// IsTransient временная ошибка хранилища: таймаут, обрыв соединения, остановка сервера
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return strings.HasPrefix(code, classConnectionException) ||
			code == "57P01" || code == "57P02" || code == "57P03" || code == "57014"
	}

	return false
}

// ErrorClass класс ошибки драйвера с точки зрения вызывающего кода
type ErrorClass int

const (
	ClassUnknown   ErrorClass = iota // неклассифицированная ошибка
	ClassConflict                    // уникальность или сериализация: повтор не поможет без изменения данных
	ClassTransient                   // временная недоступность
)

// Classify определяет класс ошибки драйвера
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ClassUnknown
	case IsUniqueViolation(err), IsSerializationFailure(err):
		return ClassConflict
	case IsTransient(err):
		return ClassTransient
	default:
		return ClassUnknown
	}
}
