package dto

import "github.com/jhoicas/climate-service/pkg/optional"

// CreateRequestRequest alta de solicitud por el personal. Fechas en formato AAAA-MM-DD.
type CreateRequestRequest struct {
	StartDate          string  `json:"start_date" validate:"required,date"`
	ClimateTechType    string  `json:"climate_tech_type" validate:"required,max=100"`
	ClimateTechModel   string  `json:"climate_tech_model" validate:"required,max=255"`
	ProblemDescription string  `json:"problem_description" validate:"required"`
	RequestStatus      string  `json:"request_status" validate:"max=100"`
	CompletionDate     *string `json:"completion_date" validate:"omitempty,date"`
	RepairParts        *string `json:"repair_parts"`
	MasterID           *int64  `json:"master_id" validate:"omitempty,gt=0"`
	ClientID           int64   `json:"client_id" validate:"required,gt=0"`
}

// ClientCreateRequest alta de solicitud por el propio cliente. client_id se ignora: siempre es el del token.
type ClientCreateRequest struct {
	StartDate          string `json:"start_date" validate:"omitempty,date"`
	ClimateTechType    string `json:"climate_tech_type" validate:"required,max=100"`
	ClimateTechModel   string `json:"climate_tech_model" validate:"required,max=255"`
	ProblemDescription string `json:"problem_description" validate:"required"`
	RequestStatus      string `json:"request_status" validate:"max=100"`
	ClientID           int64  `json:"client_id"`
}

// UpdateRequestRequest actualización parcial; null limpia completion_date, repair_parts o master_id.
type UpdateRequestRequest struct {
	RequestStatus  optional.Field[string] `json:"request_status"`
	CompletionDate optional.Field[string] `json:"completion_date"`
	RepairParts    optional.Field[string] `json:"repair_parts"`
	MasterID       optional.Field[int64]  `json:"master_id"`
	ClientID       optional.Field[int64]  `json:"client_id"`
}

// AssignRequest asignación de especialista.
type AssignRequest struct {
	MasterID int64 `json:"master_id" validate:"required,gt=0"`
}

// ExtendRequest prórroga del plazo. reason no se almacena: se registra en el log y en el evento.
type ExtendRequest struct {
	NewCompletionDate string `json:"new_completion_date" validate:"required,date"`
	Reason            string `json:"reason" validate:"max=1000"`
}

// SearchRequestsQuery criterios de /requests/search; vacíos no filtran.
type SearchRequestsQuery struct {
	PageRequest
	RequestID        int64  `query:"request_id"`
	RequestStatus    string `query:"request_status"`
	ClimateTechType  string `query:"climate_tech_type"`
	ClimateTechModel string `query:"climate_tech_model"`
	ClientID         int64  `query:"client_id"`
	MasterID         int64  `query:"master_id"`
	Query            string `query:"q"`
}

// RequestResponse salida de una solicitud.
type RequestResponse struct {
	RequestID          int64   `json:"request_id"`
	StartDate          string  `json:"start_date"`
	ClimateTechType    string  `json:"climate_tech_type"`
	ClimateTechModel   string  `json:"climate_tech_model"`
	ProblemDescription string  `json:"problem_description"`
	RequestStatus      string  `json:"request_status"`
	CompletionDate     *string `json:"completion_date"`
	RepairParts        *string `json:"repair_parts"`
	MasterID           *int64  `json:"master_id"`
	ClientID           int64   `json:"client_id"`
}
