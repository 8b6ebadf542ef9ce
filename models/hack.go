package models

import "time"

const TypeHacks = "hacks"

type Hack struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Challenges []string  `json:"challenges" db:"challenges"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

func (h *Hack) Resource(challenges []Snapshot) Resource {
	return Resource{
		Type: TypeHacks,
		ID:   h.ID,
		Attributes: map[string]interface{}{
			"name": h.Name,
		},
		Relationships: map[string]Relationship{
			"challenges": {Data: identifiers(challenges)},
		},
	}
}

func (h *Hack) Snapshot() Snapshot {
	return Snapshot{Type: TypeHacks, ID: h.ID, Name: h.Name}
}
