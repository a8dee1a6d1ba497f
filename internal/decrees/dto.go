package decrees

// CreateDecreeRequest carries the payload for registering a new decree.
type CreateDecreeRequest struct {
	ActNumber    string         `json:"numeroActa" validate:"required"`
	RUT          string         `json:"rut" validate:"required"`
	Name         string         `json:"nombre" validate:"required"`
	Kind         Kind           `json:"tipoSolicitud" validate:"required,oneof=PA FL"`
	StartDate    string         `json:"fechaInicio" validate:"required,datetime=2006-01-02"`
	EndDate      string         `json:"fechaTermino,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Days         float64        `json:"cantidadDias" validate:"gt=0"`
	DaysEntitled *float64       `json:"diasDisponibles,omitempty" validate:"omitempty,gte=0"`
	FirstPeriod  *PeriodBalance `json:"primerPeriodo,omitempty"`
	SecondPeriod *PeriodBalance `json:"segundoPeriodo,omitempty"`
	Notes        string         `json:"observaciones,omitempty"`
}

// UpdateDecreeRequest mirrors the create payload; all fields are replaced.
type UpdateDecreeRequest = CreateDecreeRequest

// ListFilter narrows a decree listing.
type ListFilter struct {
	RUT      string
	Kind     Kind
	DateFrom string
	DateTo   string
	Page     int
	PerPage  int
}
