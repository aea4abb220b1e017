package cachebus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-DentalService/internal/cache"
)

// DefaultChannel канал Redis для инвалидаций кэша
const DefaultChannel = "dental:cache:invalidations"

type message struct {
	Origin        string               `json:"origin"`
	SentAt        time.Time            `json:"sent_at"`
	Invalidations []cache.Invalidation `json:"invalidations"`
}

// Bus рассылает инвалидации кэша между экземплярами сервиса через Redis pub/sub
//
// Каждый экземпляр держит собственный кэш; мутация на одном экземпляре
// сбрасывает те же регионы на остальных. Свои сообщения игнорируются по Origin.
type Bus struct {
	client     *redis.Client
	channel    string
	instanceID string
	logger     Logger
}

// New создает шину
func New(client *redis.Client, channel string, logger Logger) *Bus {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Bus{
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
		logger:     logger,
	}
}

// InstanceID идентификатор этого экземпляра
func (b *Bus) InstanceID() string {
	return b.instanceID
}

// Publish реализует cache.Publisher
func (b *Bus) Publish(ctx context.Context, invalidations []cache.Invalidation) error {
	payload, err := b.encode(invalidations)
	if err != nil {
		return err
	}

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("%w: Publish - channel %s: %v", ErrPublish, b.channel, err)
	}

	return nil
}

// Run слушает канал и применяет чужие инвалидации до отмены контекста
func (b *Bus) Run(ctx context.Context, applier Applier) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	// Дожидаемся подтверждения подписки, чтобы не потерять первые сообщения
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("%w: Run - channel %s: %v", ErrSubscribe, b.channel, err)
	}

	b.logger.Info("Run: cache bus subscribed to %s as %s", b.channel, b.instanceID)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := b.handle(msg.Payload, applier); err != nil {
				b.logger.Warn("Run: %v", err)
			}
		}
	}
}

// Ping проверяет доступность Redis
func (b *Bus) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *Bus) encode(invalidations []cache.Invalidation) (string, error) {
	payload, err := json.Marshal(message{
		Origin:        b.instanceID,
		SentAt:        time.Now().UTC(),
		Invalidations: invalidations,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode: %v", ErrPublish, err)
	}
	return string(payload), nil
}

// handle применяет сообщение, если оно пришло от другого экземпляра
func (b *Bus) handle(payload string, applier Applier) error {
	var msg message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if msg.Origin == b.instanceID {
		return nil
	}

	valid := make([]cache.Invalidation, 0, len(msg.Invalidations))
	for _, inv := range msg.Invalidations {
		if err := inv.Region.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		valid = append(valid, inv)
	}

	applier.ApplyRemote(valid)
	return nil
}
