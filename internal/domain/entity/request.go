package entity

import "time"

// DateLayout formato de fecha de calendario en la API y en los formularios.
const DateLayout = "2006-01-02"

// Request solicitud de reparación de un equipo de climatización.
type Request struct {
	ID                 int64
	StartDate          time.Time
	TechType           string
	TechModel          string
	ProblemDescription string
	Status             RequestStatus
	CompletionDate     *time.Time
	RepairParts        *string
	MasterID           *int64 // especialista asignado; se anula si el usuario se elimina
	ClientID           int64
}

// Completed una solicitud cuenta como terminada cuando tiene fecha de finalización.
func (r *Request) Completed() bool {
	return r.CompletionDate != nil
}

// RepairDays días entre inicio y finalización; ok=false si no está terminada.
func (r *Request) RepairDays() (days int, ok bool) {
	if r.CompletionDate == nil {
		return 0, false
	}
	return int(r.CompletionDate.Sub(r.StartDate).Hours() / 24), true
}

// Today fecha de hoy truncada a medianoche UTC.
func Today() time.Time {
	return TruncateDate(time.Now())
}

// TruncateDate descarta la hora conservando el día de calendario de t.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
