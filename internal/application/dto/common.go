package dto

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// PageRequest pagination for listings.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=500"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage applies defaults to zero or negative values.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse HTTP error body.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []FieldDetail `json:"details,omitempty"`
}

// FieldDetail one failed field of a validated request.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
