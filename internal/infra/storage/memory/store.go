// Package memory хранилище в памяти с тем же контрактом, что и репозитории PostgreSQL.
// Используется в тестах и для локального запуска без БД.
package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

// Store данные всех сущностей
type Store struct {
	mu sync.RWMutex

	nextID       int64
	appointments map[int64]*domain.Appointment
	dentists     map[int64]*domain.Dentist
	schedules    map[int64][]domain.ScheduleEntry
	treatments   map[int64]*domain.Treatment
	patients     map[int64]*domain.Patient

	// txMu сериализует транзакции целиком (аналог SERIALIZABLE без отката)
	txMu sync.Mutex

	reads atomic.Int64
	now   func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		appointments: make(map[int64]*domain.Appointment),
		dentists:     make(map[int64]*domain.Dentist),
		schedules:    make(map[int64][]domain.ScheduleEntry),
		treatments:   make(map[int64]*domain.Treatment),
		patients:     make(map[int64]*domain.Patient),
		now:          time.Now,
	}
}

// Reads количество операций чтения (для проверки работы кэша)
func (s *Store) Reads() int64 {
	return s.reads.Load()
}

// AddDentist добавляет стоматолога
func (s *Store) AddDentist(d domain.Dentist) *domain.Dentist {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == 0 {
		d.ID = s.id()
	}
	d.CreatedAt, d.UpdatedAt = s.now(), s.now()
	s.dentists[d.ID] = &d
	c := d
	return &c
}

// AddTreatment добавляет процедуру
func (s *Store) AddTreatment(t domain.Treatment) *domain.Treatment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == 0 {
		t.ID = s.id()
	}
	t.CreatedAt, t.UpdatedAt = s.now(), s.now()
	s.treatments[t.ID] = &t
	c := t
	return &c
}

// AddPatient добавляет пациента
func (s *Store) AddPatient(p domain.Patient) *domain.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.id()
	}
	s.patients[p.ID] = &p
	c := p
	return &c
}

// UpdatePatient меняет профиль пациента (снимки в записях не меняются)
func (s *Store) UpdatePatient(p domain.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.patients[p.ID] = &p
}

// TxManager менеджер "транзакций" хранилища в памяти
// Транзакции выполняются строго по одной; отката нет, поэтому запись должна быть последним шагом
type TxManager struct {
	store *Store
}

// NewTxManager создает менеджер транзакций
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

type txKey struct{}

// Do выполняет fn под блокировкой хранилища
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

// DoSerializable то же, что Do
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

// id выдаёт следующий идентификатор; вызывается под s.mu
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DoReadOnly то же, что Do
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}
