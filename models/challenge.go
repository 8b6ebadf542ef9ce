package models

import "time"

const TypeChallenges = "challenges"

type Challenge struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (c *Challenge) Resource() Resource {
	return Resource{
		Type: TypeChallenges,
		ID:   c.ID,
		Attributes: map[string]interface{}{
			"name": c.Name,
		},
	}
}

func (c *Challenge) Snapshot() Snapshot {
	return Snapshot{Type: TypeChallenges, ID: c.ID, Name: c.Name}
}
