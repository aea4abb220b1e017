package domain

import "time"

// Patient профиль пациента - источник снимка при записи на приём
type Patient struct {
	ID             int64
	AccountID      int64
	FirstName      string
	MiddleName     *string
	LastName       string
	SecondLastName *string
	DocumentTypeID int64
	DocumentType   string // название типа документа (из справочника)
	DocumentNumber string
	Sex            Sex
	BirthDate      time.Time
}

// Snapshot копирует данные пациента для сохранения в записи на приём
func (p *Patient) Snapshot() PatientSnapshot {
	return PatientSnapshot{
		FirstName:      p.FirstName,
		MiddleName:     cloneString(p.MiddleName),
		LastName:       p.LastName,
		SecondLastName: cloneString(p.SecondLastName),
		DocumentType:   p.DocumentType,
		DocumentNumber: p.DocumentNumber,
		Sex:            p.Sex,
		BirthDate:      p.BirthDate,
	}
}
