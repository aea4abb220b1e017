package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// Notifier публикует события записей на приём в Kafka
// Ключ сообщения - ID записи, поэтому события одной записи упорядочены в партиции
type Notifier struct {
	writer MessageWriter
	logger Logger
	now    func() time.Time
}

// NewKafkaWriter создает writer для топика
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// SplitBrokers разбирает список брокеров "host1:9092, host2:9092"
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// New создает публикатор событий
func New(writer MessageWriter, logger Logger) *Notifier {
	return &Notifier{
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
}

// NotifyBooked запись создана
func (n *Notifier) NotifyBooked(ctx context.Context, a *domain.Appointment) error {
	return n.publish(ctx, newEvent(uuid.NewString(), EventBooked, a, n.now()))
}

// NotifyAttended пациент принят
func (n *Notifier) NotifyAttended(ctx context.Context, a *domain.Appointment) error {
	return n.publish(ctx, newEvent(uuid.NewString(), EventAttended, a, n.now()))
}

// NotifyCancelled запись отменена
func (n *Notifier) NotifyCancelled(ctx context.Context, a *domain.Appointment) error {
	return n.publish(ctx, newEvent(uuid.NewString(), EventCancelled, a, n.now()))
}

// NotifyRescheduled запись перенесена; prevDate и prevStart - прежний слот
func (n *Notifier) NotifyRescheduled(ctx context.Context, a *domain.Appointment, prevDate time.Time, prevStart types.TimeString) error {
	event := newEvent(uuid.NewString(), EventRescheduled, a, n.now())
	date := prevDate.Format(domain.DateFormat)
	start := prevStart.String()
	event.PreviousDate = &date
	event.PreviousStartTime = &start

	return n.publish(ctx, event)
}

// NotifyReminder напоминание о сегодняшнем приёме
func (n *Notifier) NotifyReminder(ctx context.Context, a *domain.Appointment) error {
	return n.publish(ctx, newEvent(uuid.NewString(), EventReminder, a, n.now()))
}

// Close закрывает writer
func (n *Notifier) Close() error {
	return n.writer.Close()
}

func (n *Notifier) publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncodeEvent, event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AppointmentID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s appointment=%d: %v", ErrPublishEvent, event.Type, event.AppointmentID, err)
	}

	n.logger.Info("publish: %s appointment=%d event_id=%s", event.Type, event.AppointmentID, event.ID)
	return nil
}
