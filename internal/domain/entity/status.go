package entity

import "strings"

// RequestStatus estado de una solicitud. Rango abierto: se acepta cualquier texto no vacío,
// las constantes documentan el flujo habitual nueva -> en reparación -> lista para entrega.
type RequestStatus string

const (
	StatusNew            RequestStatus = "Новая заявка"
	StatusInRepair       RequestStatus = "В процессе ремонта"
	StatusAwaitingParts  RequestStatus = "Ожидание комплектующих"
	StatusReadyForPickup RequestStatus = "Готова к выдаче"
)

// KnownStatuses estados sugeridos en la interfaz web.
var KnownStatuses = []RequestStatus{StatusNew, StatusInRepair, StatusAwaitingParts, StatusReadyForPickup}

// Valid cualquier estado no vacío es válido.
func (s RequestStatus) Valid() bool {
	return strings.TrimSpace(string(s)) != ""
}

func (s RequestStatus) String() string { return string(s) }
