package dto

import "github.com/spec-kit/booking-gateway/internal/service"

// CreateAccountRequest payload for public account registration.
type CreateAccountRequest struct {
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	EmailAddress         string `json:"email_address"`
	UserName             string `json:"user_name"`
	Language             string `json:"language"`
	Timezone             string `json:"timezone"`
	Phone                string `json:"phone"`
	Organization         string `json:"organization"`
	Position             string `json:"position"`
	Password             string `json:"password"`
	AcceptTermsOfService bool   `json:"accept_terms_of_service"`
}

// UpdateAccountRequest payload for profile updates.
type UpdateAccountRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	EmailAddress string `json:"email_address"`
	UserName     string `json:"user_name"`
	Language     string `json:"language"`
	Timezone     string `json:"timezone"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Position     string `json:"position"`
}

// UpdatePasswordRequest payload for password changes.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ToInput converts the creation payload to a service input.
func (r CreateAccountRequest) ToInput() service.AccountInput {
	return service.AccountInput{
		FirstName:            r.FirstName,
		LastName:             r.LastName,
		EmailAddress:         r.EmailAddress,
		UserName:             r.UserName,
		Language:             r.Language,
		Timezone:             r.Timezone,
		Phone:                r.Phone,
		Organization:         r.Organization,
		Position:             r.Position,
		Password:             r.Password,
		AcceptTermsOfService: r.AcceptTermsOfService,
	}
}

// ToInput converts the update payload to a service input.
func (r UpdateAccountRequest) ToInput() service.AccountInput {
	return service.AccountInput{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		EmailAddress: r.EmailAddress,
		UserName:     r.UserName,
		Language:     r.Language,
		Timezone:     r.Timezone,
		Phone:        r.Phone,
		Organization: r.Organization,
		Position:     r.Position,
	}
}
