package decrees

import "time"

// Kind classifies a decree request.
type Kind string

const (
	// KindAdministrativePermit is a short administrative leave measured in
	// requested days against an entitlement balance.
	KindAdministrativePermit Kind = "PA"
	// KindLegalHoliday is statutory vacation leave measured as a date range
	// against one or two sub-period balances.
	KindLegalHoliday Kind = "FL"
)

// PeriodBalance carries the before/after balance of one legal-holiday
// sub-period.
type PeriodBalance struct {
	Before float64 `json:"saldoAnterior"`
	After  float64 `json:"saldoPosterior"`
}

// Decree represents one issued leave/permit decree. Calendar dates travel as
// ISO strings (YYYY-MM-DD) exactly as the upstream store keeps them; the
// consistency engine owns the parsing rules.
type Decree struct {
	ID           string         `json:"id" db:"id"`
	ActNumber    string         `json:"numeroActa" db:"act_number"`
	RUT          string         `json:"rut" db:"rut"`
	Name         string         `json:"nombre" db:"full_name"`
	Kind         Kind           `json:"tipoSolicitud" db:"kind"`
	StartDate    string         `json:"fechaInicio" db:"start_date"`
	EndDate      string         `json:"fechaTermino,omitempty" db:"end_date"`
	Days         float64        `json:"cantidadDias" db:"days"`
	DaysEntitled *float64       `json:"diasDisponibles,omitempty" db:"days_entitled"`
	FirstPeriod  *PeriodBalance `json:"primerPeriodo,omitempty" db:"-"`
	SecondPeriod *PeriodBalance `json:"segundoPeriodo,omitempty" db:"-"`
	Notes        string         `json:"observaciones,omitempty" db:"notes"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time      `json:"updatedAt" db:"updated_at"`
}
