package employees

import "time"

// Employee is one roster entry. The roster is a cross-reference source for the
// consistency auditor and a lookup table for the UI.
type Employee struct {
	ID         int64     `json:"id" db:"id"`
	RUT        string    `json:"rut" db:"rut"`
	Name       string    `json:"nombre" db:"full_name"`
	Department *string   `json:"departamento,omitempty" db:"department"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateEmployeeRequest carries the payload for adding a roster entry.
type CreateEmployeeRequest struct {
	RUT        string  `json:"rut" validate:"required"`
	Name       string  `json:"nombre" validate:"required"`
	Department *string `json:"departamento,omitempty"`
}
