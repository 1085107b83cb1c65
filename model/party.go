package model

import (
	"time"
)

// Party represents an organization involved in reinsurance contracts:
// a cedant, reinsurer, or broker.
type Party struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PartyType string `json:"party_type"` // cedant, reinsurer, broker

	// Contact
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`

	// Business details
	RegistrationNumber string `json:"registration_number,omitempty"`
	LicenseNumber      string `json:"license_number,omitempty"`

	Notes    string `json:"notes,omitempty"`
	IsActive bool   `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Party type constants
const (
	PartyTypeCedant    = "cedant"
	PartyTypeReinsurer = "reinsurer"
	PartyTypeBroker    = "broker"
)
