package handler

import (
	"github.com/shopspring/decimal"

	"github.com/sirpyerre/secure-items-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username string   `json:"username"  validate:"required,min=3,max=50"`
	Password string   `json:"password"  validate:"required,min=4,max=72"`
	Email    string   `json:"email"     validate:"required,email"`
	FullName string   `json:"full_name" validate:"max=100"`
	Roles    []string `json:"roles"     validate:"omitempty,dive,oneof=USER ADMIN"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string           `json:"message"`
	User    ports.UserOutput `json:"user"`
}

// --- Users ---

// updateUserRequest leaves the password and roles untouched when they are
// omitted.
type updateUserRequest struct {
	Email    string   `json:"email"     validate:"required,email"`
	FullName string   `json:"full_name" validate:"max=100"`
	Password string   `json:"password"  validate:"omitempty,min=4,max=72"`
	Roles    []string `json:"roles"     validate:"omitempty,dive,oneof=USER ADMIN"`
}

// --- Items ---

// itemRequest accepts the price either as a JSON number or as a string.
type itemRequest struct {
	Name        string           `json:"name"        validate:"required,max=200"`
	Description string           `json:"description" validate:"max=2000"`
	Price       *decimal.Decimal `json:"price"       validate:"required" swaggertype:"string" example:"19.99"`
}

func (r itemRequest) toInput() ports.ItemInput {
	in := ports.ItemInput{Name: r.Name, Description: r.Description}
	if r.Price != nil {
		in.Price = *r.Price
	}
	return in
}
