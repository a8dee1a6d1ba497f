package calendar

import "time"

// Holiday is one designated non-working day. Dates travel as ISO strings
// (YYYY-MM-DD), matching the rest of the system.
type Holiday struct {
	ID        int64     `json:"id" db:"id"`
	Date      string    `json:"fecha" db:"holiday_date"`
	Name      string    `json:"descripcion" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateHolidayRequest carries the payload for designating a holiday.
type CreateHolidayRequest struct {
	Date string `json:"fecha" validate:"required,datetime=2006-01-02"`
	Name string `json:"descripcion" validate:"required"`
}
