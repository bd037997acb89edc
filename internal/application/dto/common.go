package dto

import (
	"fmt"
	"time"

	"github.com/jhoicas/cafecraft/internal/domain"
)

// DefaultListLimit límite por defecto de los listados recientes.
const DefaultListLimit = 10

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// DateRange rango de fechas inclusivo (días completos en la zona del reporte).
// Fechas vacías equivalen a hoy.
type DateRange struct {
	Start string `query:"start" json:"start"` // YYYY-MM-DD
	End   string `query:"end" json:"end"`     // YYYY-MM-DD
}

// Period rango ya resuelto: From inclusivo, To exclusivo.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}

const dateLayout = "2006-01-02"

// Resolve convierte el rango a [From, To) en la zona loc. Sin fechas se usa el día de now.
// Si solo viene una fecha, el rango es ese único día.
func (r DateRange) Resolve(loc *time.Location, now time.Time) (Period, error) {
	if loc == nil {
		loc = time.Local
	}
	today := now.In(loc)
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	end := start
	var err error
	if r.Start != "" {
		if start, err = time.ParseInLocation(dateLayout, r.Start, loc); err != nil {
			return Period{}, fmt.Errorf("%w: fecha inicial inválida %q", domain.ErrInvalidInput, r.Start)
		}
		end = start
	}
	if r.End != "" {
		if end, err = time.ParseInLocation(dateLayout, r.End, loc); err != nil {
			return Period{}, fmt.Errorf("%w: fecha final inválida %q", domain.ErrInvalidInput, r.End)
		}
		if r.Start == "" {
			start = end
		}
	}
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: la fecha final es anterior a la inicial", domain.ErrInvalidInput)
	}
	return Period{From: start, To: end.AddDate(0, 0, 1)}, nil
}
