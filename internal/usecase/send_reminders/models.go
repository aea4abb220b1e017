package send_reminders

import "time"

// Result итог рассылки
type Result struct {
	Date   time.Time
	Total  int // ожидающих приёмов на дату
	Sent   int
	Failed int
}
