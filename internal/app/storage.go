package app

import (
	appointmentRepo "github.com/m04kA/SMC-DentalService/internal/infra/storage/appointment"
	dentistRepo "github.com/m04kA/SMC-DentalService/internal/infra/storage/dentist"
	"github.com/m04kA/SMC-DentalService/internal/infra/storage/memory"
	patientRepo "github.com/m04kA/SMC-DentalService/internal/infra/storage/patient"
	treatmentRepo "github.com/m04kA/SMC-DentalService/internal/infra/storage/treatment"
	"github.com/m04kA/SMC-DentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DentalService/pkg/txmanager"
)

// Storage репозитории и менеджер транзакций одного хранилища
type Storage struct {
	Appointments AppointmentRepository
	Dentists     DentistRepository
	Treatments   TreatmentRepository
	Patients     PatientRepository
	TxManager    TransactionManager
}

// PostgresStorage репозитории поверх PostgreSQL
func PostgresStorage(db *dbmetrics.DB) Storage {
	return Storage{
		Appointments: appointmentRepo.NewRepository(db),
		Dentists:     dentistRepo.NewRepository(db),
		Treatments:   treatmentRepo.NewRepository(db),
		Patients:     patientRepo.NewRepository(db),
		TxManager:    txmanager.NewTransactionManager(db),
	}
}

// MemoryStorage репозитории поверх хранилища в памяти
func MemoryStorage(store *memory.Store) Storage {
	return Storage{
		Appointments: memory.NewAppointmentRepository(store),
		Dentists:     memory.NewDentistRepository(store),
		Treatments:   memory.NewTreatmentRepository(store),
		Patients:     memory.NewPatientRepository(store),
		TxManager:    memory.NewTxManager(store),
	}
}
