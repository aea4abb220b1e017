package filter

import (
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

// Колонки таблиц, по которым строятся условия
const (
	colAppointmentPatientID   = "a.patient_id"
	colAppointmentDentistID   = "a.dentist_id"
	colAppointmentTreatmentID = "a.treatment_id"
	colAppointmentStatus      = "a.status"
	colAppointmentDate        = "a.appointment_date"
	colAppointmentSex         = "a.patient_sex"
	colAppointmentDocument    = "a.patient_document_number"
	colAppointmentPatientName = "concat_ws(' ', a.patient_first_name, a.patient_middle_name, a.patient_last_name, a.patient_second_last_name)"

	colDentistSpecialization = "d.specialization"
	colDentistName           = "d.full_name"
	colDentistLicense        = "d.license_number"
	colDentistActive         = "d.active"

	colTreatmentName   = "t.name"
	colTreatmentTypeID = "t.treatment_type_id"
	colTreatmentActive = "t.active"
)

// Appointments собирает условие для записей на приём из фильтра
func Appointments(f domain.AppointmentFilter) Predicate[*domain.Appointment] {
	return And(
		Eq(colAppointmentPatientID, f.PatientID, func(a *domain.Appointment) int64 { return a.PatientID }),
		Eq(colAppointmentDentistID, f.DentistID, func(a *domain.Appointment) int64 { return a.DentistID }),
		Eq(colAppointmentTreatmentID, f.TreatmentID, func(a *domain.Appointment) int64 { return a.TreatmentID }),
		Eq(colAppointmentStatus, f.Status, func(a *domain.Appointment) domain.AppointmentStatus { return a.Status }),
		In(colAppointmentStatus, f.Statuses, func(a *domain.Appointment) domain.AppointmentStatus { return a.Status }),
		DateRange(colAppointmentDate, f.StartDate, f.EndDate, func(a *domain.Appointment) time.Time { return a.Date }),
		Eq(colAppointmentSex, f.Sex, func(a *domain.Appointment) domain.Sex { return a.Patient.Sex }),
		ContainsFold(colAppointmentPatientName, f.PatientName, func(a *domain.Appointment) string { return a.Patient.FullName() }),
		Eq(colAppointmentDocument, f.DocumentNumber, func(a *domain.Appointment) string { return a.Patient.DocumentNumber }),
	)
}

// Dentists собирает условие для стоматологов из фильтра
func Dentists(f domain.DentistFilter) Predicate[*domain.Dentist] {
	return And(
		ContainsFold(colDentistSpecialization, f.Specialization, func(d *domain.Dentist) string { return d.Specialization }),
		ContainsFold(colDentistName, f.Name, func(d *domain.Dentist) string { return d.FullName }),
		Eq(colDentistLicense, f.LicenseNumber, func(d *domain.Dentist) string { return d.LicenseNumber }),
		Eq(colDentistActive, f.Active, func(d *domain.Dentist) bool { return d.Active }),
	)
}

// Treatments собирает условие для процедур из фильтра
func Treatments(f domain.TreatmentFilter) Predicate[*domain.Treatment] {
	return And(
		ContainsFold(colTreatmentName, f.Name, func(t *domain.Treatment) string { return t.Name }),
		Eq(colTreatmentTypeID, f.TreatmentTypeID, func(t *domain.Treatment) int64 { return t.TreatmentTypeID }),
		Eq(colTreatmentActive, f.Active, func(t *domain.Treatment) bool { return t.Active }),
	)
}
