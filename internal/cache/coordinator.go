package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-DentalService/pkg/metrics"
)

const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 10000

	publishTimeout      = 2 * time.Second
	maxPendingPublishes = 64
)

// Config параметры кэша
type Config struct {
	TTL        time.Duration
	MaxEntries int
}

type entry struct {
	key       Key
	value     interface{}
	expiresAt time.Time
}

// Coordinator кэш результатов чтения с TTL, LRU-вытеснением и инвалидацией по регионам
//
// Кэш только ускоряет чтение: пустой или сброшенный кэш не меняет результатов.
// Каждая инвалидация увеличивает поколение региона; Load не сохраняет результат,
// если поколение сменилось за время загрузки.
type Coordinator struct {
	mu sync.Mutex

	ttl        time.Duration
	maxEntries int

	lru         *list.List // front - самый свежий
	items       map[string]*list.Element
	regions     map[Region]map[string]*list.Element
	generations map[Region]uint64

	now       func() time.Time
	metrics   *metrics.Metrics
	publisher Publisher
	logger    Logger

	// рассылка идёт в фоне, не дольше publishTimeout на план
	publishSlots chan struct{}
	publishing   sync.WaitGroup
}

// Option настройка координатора
type Option func(*Coordinator)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithMetrics включает метрики кэша
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithPublisher рассылает инвалидации другим экземплярам
func WithPublisher(p Publisher) Option {
	return func(c *Coordinator) { c.publisher = p }
}

// WithLogger задаёт логгер
func WithLogger(l Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// New создает координатор кэша
func New(cfg Config, opts ...Option) *Coordinator {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}

	c := &Coordinator{
		ttl:         cfg.TTL,
		maxEntries:  cfg.MaxEntries,
		lru:         list.New(),
		items:       make(map[string]*list.Element),
		regions:     make(map[Region]map[string]*list.Element),
		generations: make(map[Region]uint64),
		now:         time.Now,

		publishSlots: make(chan struct{}, maxPendingPublishes),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get возвращает значение по ключу; протухшая запись считается отсутствующей
func (c *Coordinator) Get(key Key) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key.String()]
	if !ok {
		c.observeMiss(key.Region)
		return nil, false
	}

	e := el.Value.(*entry)
	if !c.now().Before(e.expiresAt) {
		c.removeElement(el)
		c.observeEviction(key.Region, "ttl")
		c.observeMiss(key.Region)
		return nil, false
	}

	c.lru.MoveToFront(el)
	c.observeHit(key.Region)
	return e.value, true
}

// Put сохраняет значение
func (c *Coordinator) Put(key Key, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.put(key, value)
}

// Invalidate удаляет ключи региона, относящиеся к сущности
// Пустая сущность означает весь регион
func (c *Coordinator) Invalidate(region Region, entity string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidate(region, entity)
}

// InvalidateAll удаляет все ключи региона
func (c *Coordinator) InvalidateAll(region Region) {
	c.Invalidate(region, "")
}

// Clear сбрасывает весь кэш
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, region := range Regions {
		c.invalidate(region, "")
	}
	c.lru.Init()
	c.items = make(map[string]*list.Element)
	c.regions = make(map[Region]map[string]*list.Element)
	c.observeSize()
}

// Apply применяет политику инвалидации для мутации над сущностью id
// и рассылает её другим экземплярам. На nil-координаторе только возвращает план
//
// Локальная инвалидация выполняется сразу, рассылка идёт в фоне и не задерживает мутацию.
// Если в очереди уже maxPendingPublishes планов, рассылка пропускается:
// кэш других экземпляров доживёт до TTL.
func (c *Coordinator) Apply(ctx context.Context, m Mutation, id int64) []Invalidation {
	plan := Plan(m, id)
	if c == nil {
		return plan
	}

	c.ApplyRemote(plan)

	if c.publisher == nil || len(plan) == 0 {
		return plan
	}

	select {
	case c.publishSlots <- struct{}{}:
	default:
		if c.logger != nil {
			c.logger.Warn("Apply: publish queue is full, skipping invalidation mutation=%s id=%d", m, id)
		}
		return plan
	}

	c.publishing.Add(1)
	go func(ctx context.Context) {
		defer func() {
			<-c.publishSlots
			c.publishing.Done()
		}()

		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		if err := c.publisher.Publish(pubCtx, plan); err != nil && c.logger != nil {
			c.logger.Warn("Apply: failed to publish invalidation mutation=%s id=%d: %v", m, id, err)
		}
	}(context.WithoutCancel(ctx))

	return plan
}

// Flush ждёт завершения фоновых рассылок
func (c *Coordinator) Flush() {
	if c == nil {
		return
	}
	c.publishing.Wait()
}

// ApplyRemote применяет инвалидации только локально (без рассылки)
func (c *Coordinator) ApplyRemote(invalidations []Invalidation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, inv := range invalidations {
		c.invalidate(inv.Region, inv.Entity)
	}
}

// Len количество записей (включая ещё не удалённые протухшие)
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}

// Generation текущее поколение региона
func (c *Coordinator) Generation(region Region) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.generations[region]
}

// putIfGeneration сохраняет значение, только если регион не инвалидировался с момента gen
func (c *Coordinator) putIfGeneration(key Key, value interface{}, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[key.Region] != gen {
		return false
	}
	c.put(key, value)
	return true
}

func (c *Coordinator) put(key Key, value interface{}) {
	k := key.String()
	expiresAt := c.now().Add(c.ttl)

	if el, ok := c.items[k]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		c.lru.MoveToFront(el)
		return
	}

	el := c.lru.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
	c.items[k] = el

	byRegion, ok := c.regions[key.Region]
	if !ok {
		byRegion = make(map[string]*list.Element)
		c.regions[key.Region] = byRegion
	}
	byRegion[k] = el

	for c.lru.Len() > c.maxEntries {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
		c.observeEviction(oldest.Value.(*entry).key.Region, "capacity")
	}

	c.observeSize()
}

func (c *Coordinator) invalidate(region Region, entity string) {
	c.generations[region]++

	scope := ScopeAll
	if entity != "" {
		scope = ScopeEntity
	}

	for _, el := range c.regions[region] {
		if entity == "" || el.Value.(*entry).key.Entity == entity {
			c.removeElement(el)
		}
	}

	if c.metrics != nil {
		c.metrics.CacheInvalidations.WithLabelValues(string(region), string(scope)).Inc()
	}
	c.observeSize()
}

func (c *Coordinator) removeElement(el *list.Element) {
	e := el.Value.(*entry)
	k := e.key.String()

	c.lru.Remove(el)
	delete(c.items, k)
	if byRegion, ok := c.regions[e.key.Region]; ok {
		delete(byRegion, k)
		if len(byRegion) == 0 {
			delete(c.regions, e.key.Region)
		}
	}
}

func (c *Coordinator) observeHit(region Region) {
	if c.metrics != nil {
		c.metrics.CacheHits.WithLabelValues(string(region)).Inc()
	}
}

func (c *Coordinator) observeMiss(region Region) {
	if c.metrics != nil {
		c.metrics.CacheMisses.WithLabelValues(string(region)).Inc()
	}
}

func (c *Coordinator) observeEviction(region Region, reason string) {
	if c.metrics != nil {
		c.metrics.CacheEvictions.WithLabelValues(string(region), reason).Inc()
	}
}

func (c *Coordinator) observeSize() {
	if c.metrics != nil {
		c.metrics.CacheEntries.Set(float64(c.lru.Len()))
	}
}
