package models

import "github.com/uptrace/bun"

// RegistryEntry is the authoritative handler/dog record for a registration number.
type RegistryEntry struct {
	bun.BaseModel `bun:"table:registry,alias:rg"`

	RegistrationNumber string `bun:"registration_number,pk" json:"registrationNumber"`
	HandlerName        string `bun:"handler_name,notnull" json:"handlerName"`
	DogCallName        string `bun:"dog_call_name,notnull" json:"dogCallName"`
}
