package model

import "github.com/google/uuid"

// ensureID fills an empty primary key with a random UUID before insert.
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
