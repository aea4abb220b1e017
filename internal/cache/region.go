package cache

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownRegion регион не зарегистрирован
var ErrUnknownRegion = errors.New("cache: unknown region")

// Region именованная группа ключей кэша, инвалидируемая целиком или по сущности
type Region string

const (
	RegionAppointmentByID Region = "appointments:by_id"
	RegionAppointmentList Region = "appointments:list"
	RegionAppointmentPage Region = "appointments:page"
	RegionDentistByID     Region = "dentists:by_id"
	RegionDentistList     Region = "dentists:list"
	RegionDentistSchedule Region = "dentists:schedule"
	RegionTreatmentByID   Region = "treatments:by_id"
	RegionTreatmentList   Region = "treatments:list"
)

// Regions все известные регионы
var Regions = []Region{
	RegionAppointmentByID,
	RegionAppointmentList,
	RegionAppointmentPage,
	RegionDentistByID,
	RegionDentistList,
	RegionDentistSchedule,
	RegionTreatmentByID,
	RegionTreatmentList,
}

// IsKnown возвращает true для зарегистрированного региона
func (r Region) IsKnown() bool {
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}

// Validate возвращает ErrUnknownRegion для незарегистрированного региона
func (r Region) Validate() error {
	if !r.IsKnown() {
		return fmt.Errorf("%w: %q", ErrUnknownRegion, r)
	}
	return nil
}

// Key ключ кэша: регион, сущность (для точечной инвалидации) и аргументы запроса
type Key struct {
	Region Region
	Entity string // пусто, если ключ не привязан к сущности
	Args   string // детерминированное представление фильтра и пагинации
}

// String сериализованный ключ, уникальный в пределах кэша
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(string(k.Region))
	b.WriteByte('#')
	b.WriteString(k.Entity)
	b.WriteByte('#')
	b.WriteString(k.Args)
	return b.String()
}

// EntityID строковое представление идентификатора сущности
func EntityID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ByID ключ для выборки одной сущности
func ByID(region Region, id int64) Key {
	return Key{Region: region, Entity: EntityID(id)}
}

// Query ключ для выборки по аргументам, не привязанной к сущности
func Query(region Region, args ...string) Key {
	return Key{Region: region, Args: strings.Join(args, "&")}
}

// Scoped ключ для выборки по аргументам в пределах одной сущности
// (например расписание конкретного стоматолога)
func Scoped(region Region, id int64, args ...string) Key {
	return Key{Region: region, Entity: EntityID(id), Args: strings.Join(args, "&")}
}
