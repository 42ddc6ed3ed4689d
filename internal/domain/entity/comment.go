package entity

// Comment nota de un especialista sobre una solicitud.
type Comment struct {
	ID        int64
	Message   string
	MasterID  int64
	RequestID int64
}
