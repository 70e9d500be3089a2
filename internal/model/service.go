package model

// AppointmentService is a bookable service offering: what gets scheduled,
// for how long, and at what price. Description is nullable in the schema,
// so it stays a pointer here.
type AppointmentService struct {
	Base
	ServiceName string  `db:"service_name" json:"service_name"`
	Description *string `db:"description" json:"description"`
	Duration    int     `db:"duration" json:"duration"` // in minutes
	Enabled     bool    `db:"enabled" json:"enabled"`
	Price       float64 `db:"price" json:"price"`
}

type CreateServiceRequest struct {
	ServiceName string  `json:"service_name" binding:"required,max=140"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Duration    int     `json:"duration" binding:"required,gt=0"`
	Enabled     *bool   `json:"enabled"`
	Price       float64 `json:"price" binding:"gte=0"`
}

type UpdateServiceRequest struct {
	ServiceName *string  `json:"service_name" binding:"omitempty,max=140"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Duration    *int     `json:"duration" binding:"omitempty,gt=0"`
	Enabled     *bool    `json:"enabled"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
}

type ServiceFilters struct {
	SearchTerm string
	Enabled    *bool
	Pagination Pagination
}
