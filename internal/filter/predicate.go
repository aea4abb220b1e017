package filter

import (
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
)

// Predicate условие над записью типа T
//
// Одно и то же условие можно проверить в памяти (Match) и отдать в squirrel как Sqlizer.
// Нулевое значение Predicate эквивалентно True: отсутствующий фильтр ничего не ограничивает.
type Predicate[T any] struct {
	sql   squirrel.Sqlizer
	match func(T) bool
}

// True нейтральный элемент композиции - совпадает со всем
func True[T any]() Predicate[T] {
	return Predicate[T]{}
}

// New создает предикат из SQL-условия и эквивалентной проверки в памяти
func New[T any](sql squirrel.Sqlizer, match func(T) bool) Predicate[T] {
	return Predicate[T]{sql: sql, match: match}
}

// IsTrue возвращает true для нейтрального предиката
func (p Predicate[T]) IsTrue() bool {
	return p.match == nil
}

// Match проверяет запись в памяти
func (p Predicate[T]) Match(v T) bool {
	if p.match == nil {
		return true
	}
	return p.match(v)
}

// ToSql реализует squirrel.Sqlizer
func (p Predicate[T]) ToSql() (string, []interface{}, error) {
	if p.sql == nil {
		return squirrel.And{}.ToSql()
	}
	return p.sql.ToSql()
}

// And объединяет предикаты логическим И
// Нейтральные предикаты отбрасываются, поэтому And() == True и And(p) == p
func And[T any](preds ...Predicate[T]) Predicate[T] {
	parts := make([]Predicate[T], 0, len(preds))
	for _, p := range preds {
		if !p.IsTrue() {
			parts = append(parts, p)
		}
	}

	switch len(parts) {
	case 0:
		return True[T]()
	case 1:
		return parts[0]
	}

	sql := make(squirrel.And, len(parts))
	for i, p := range parts {
		sql[i] = p.sql
	}

	return Predicate[T]{
		sql: sql,
		match: func(v T) bool {
			for _, p := range parts {
				if !p.match(v) {
					return false
				}
			}
			return true
		},
	}
}

// Filter возвращает записи, удовлетворяющие предикату
func Filter[T any](items []T, p Predicate[T]) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if p.Match(item) {
			result = append(result, item)
		}
	}
	return result
}

// Eq проверка на равенство; nil - без ограничения
func Eq[T any, V comparable](column string, value *V, get func(T) V) Predicate[T] {
	if value == nil {
		return True[T]()
	}
	want := *value
	return Predicate[T]{
		sql:   squirrel.Eq{column: want},
		match: func(v T) bool { return get(v) == want },
	}
}

// In проверка на принадлежность множеству; пустое множество - без ограничения
func In[T any, V comparable](column string, values []V, get func(T) V) Predicate[T] {
	if len(values) == 0 {
		return True[T]()
	}
	set := make(map[V]struct{}, len(values))
	list := make([]V, 0, len(values))
	for _, v := range values {
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		list = append(list, v)
	}
	return Predicate[T]{
		sql: squirrel.Eq{column: list},
		match: func(v T) bool {
			_, ok := set[get(v)]
			return ok
		},
	}
}

// DateRange диапазон календарных дней включительно; любая граница может отсутствовать
// Проверка from <= to выполняется сервисным слоем до построения предиката
func DateRange[T any](column string, from, to *time.Time, get func(T) time.Time) Predicate[T] {
	var preds []Predicate[T]

	if from != nil {
		lower := dateOnly(*from)
		preds = append(preds, Predicate[T]{
			sql:   squirrel.GtOrEq{column: lower.Format(dateLayout)},
			match: func(v T) bool { return !dateOnly(get(v)).Before(lower) },
		})
	}
	if to != nil {
		upper := dateOnly(*to)
		preds = append(preds, Predicate[T]{
			sql:   squirrel.LtOrEq{column: upper.Format(dateLayout)},
			match: func(v T) bool { return !dateOnly(get(v)).After(upper) },
		})
	}

	return And(preds...)
}

// ContainsFold подстрока без учёта регистра; nil или пустая строка - без ограничения
func ContainsFold[T any](column string, value *string, get func(T) string) Predicate[T] {
	if value == nil {
		return True[T]()
	}
	needle := strings.TrimSpace(*value)
	if needle == "" {
		return True[T]()
	}
	folded := strings.ToLower(needle)
	return Predicate[T]{
		sql:   squirrel.ILike{column: "%" + escapeLike(needle) + "%"},
		match: func(v T) bool { return strings.Contains(strings.ToLower(get(v)), folded) },
	}
}

const dateLayout = "2006-01-02"

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// escapeLike экранирует спецсимволы LIKE, чтобы они искались буквально
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
