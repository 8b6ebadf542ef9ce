package models

import "time"

const TypeUsers = "users"

// ID пользователя задаётся извне (внешняя идентичность), не генерируется
// и не меняется после создания.
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Resource собирает JSON:API ресурс пользователя. team передаётся, если
// пользователь состоит в команде (обратный поиск по коллекции команд).
func (u *User) Resource(team *Snapshot) Resource {
	res := Resource{
		Type: TypeUsers,
		ID:   u.ID,
		Attributes: map[string]interface{}{
			"name": u.Name,
		},
	}
	if team != nil {
		res.Relationships = map[string]Relationship{
			"team": {Data: []ResourceIdentifier{team.Identifier()}},
		}
	}
	return res
}

func (u *User) Snapshot() Snapshot {
	return Snapshot{Type: TypeUsers, ID: u.ID, Name: u.Name}
}
