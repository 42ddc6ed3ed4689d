package dto

// DefaultLimit y MaxLimit paginación de listados (skip/limit).
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// PageRequest paginación para listados. Se acepta skip u offset.
type PageRequest struct {
	Skip   int `query:"skip"`
	Offset int `query:"offset"`
	Limit  int `query:"limit"`
}

// Normalize aplica valores por defecto y límites; devuelve (offset, limit).
func (p PageRequest) Normalize() (int, int) {
	offset := p.Offset
	if p.Skip > 0 {
		offset = p.Skip
	}
	if offset < 0 {
		offset = 0
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return offset, limit
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DetailResponse confirmación simple.
type DetailResponse struct {
	Detail string `json:"detail"`
}
