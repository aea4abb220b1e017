package cache

// Mutation операция, меняющая данные под кэшем
type Mutation string

const (
	MutationBook              Mutation = "book"
	MutationAttend            Mutation = "attend"
	MutationCancel            Mutation = "cancel"
	MutationReschedule        Mutation = "reschedule"
	MutationScheduleAdd       Mutation = "schedule_add"
	MutationScheduleRemove    Mutation = "schedule_remove"
	MutationDentistDeactivate Mutation = "dentist_deactivate"
)

// Scope охват инвалидации региона
type Scope string

const (
	ScopeEntity Scope = "entity" // только ключи изменённой сущности
	ScopeAll    Scope = "all"    // весь регион
)

// Rule одно правило инвалидации
type Rule struct {
	Region Region
	Scope  Scope
}

// Policy таблица инвалидации: мутация -> затронутые регионы
//
// Списки и страницы записей сбрасываются целиком: любая мутация может изменить
// результат произвольной комбинации фильтров, и вычислять затронутые ключи не нужно.
var Policy = map[Mutation][]Rule{
	MutationBook:       appointmentRules(),
	MutationAttend:     appointmentRules(),
	MutationCancel:     appointmentRules(),
	MutationReschedule: appointmentRules(),
	MutationScheduleAdd: {
		{Region: RegionDentistSchedule, Scope: ScopeEntity},
	},
	MutationScheduleRemove: {
		{Region: RegionDentistSchedule, Scope: ScopeEntity},
	},
	MutationDentistDeactivate: {
		{Region: RegionDentistByID, Scope: ScopeEntity},
		{Region: RegionDentistList, Scope: ScopeAll},
		{Region: RegionDentistSchedule, Scope: ScopeEntity},
	},
}

func appointmentRules() []Rule {
	return []Rule{
		{Region: RegionAppointmentByID, Scope: ScopeEntity},
		{Region: RegionAppointmentList, Scope: ScopeAll},
		{Region: RegionAppointmentPage, Scope: ScopeAll},
	}
}

// Invalidation конкретная инвалидация, полученная применением правила к сущности
type Invalidation struct {
	Region Region `json:"region"`
	Entity string `json:"entity,omitempty"` // пусто - весь регион
}

// Plan возвращает инвалидации для мутации над сущностью id
// Если id не задан (<= 0), правила со ScopeEntity расширяются до всего региона
func Plan(m Mutation, id int64) []Invalidation {
	rules := Policy[m]
	result := make([]Invalidation, 0, len(rules))
	for _, rule := range rules {
		inv := Invalidation{Region: rule.Region}
		if rule.Scope == ScopeEntity && id > 0 {
			inv.Entity = EntityID(id)
		}
		result = append(result, inv)
	}
	return result
}
