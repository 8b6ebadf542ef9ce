package models

import "time"

const TypeTeams = "teams"

type Team struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Motto     *string   `json:"motto,omitempty" db:"motto"`
	Members   []string  `json:"members" db:"members"`
	Entries   []string  `json:"entries" db:"entries"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

// Resource собирает JSON:API ресурс команды. Снапшоты участников и заявок
// передаются отдельно и попадают в relationships (в порядке массива команды).
func (t *Team) Resource(members, entries []Snapshot) Resource {
	attrs := map[string]interface{}{
		"name": t.Name,
	}
	if t.Motto != nil {
		attrs["motto"] = *t.Motto
	}
	if t.LogoURL != nil {
		attrs["logo_url"] = *t.LogoURL
	}

	rels := map[string]Relationship{
		"members": {Data: identifiers(members)},
		"entries": {Data: identifiers(entries)},
	}

	return Resource{
		Type:          TypeTeams,
		ID:            t.ID,
		Attributes:    attrs,
		Relationships: rels,
	}
}

// Snapshot строит проекцию команды для included-секций чужих ответов.
func (t *Team) Snapshot() Snapshot {
	return Snapshot{Type: TypeTeams, ID: t.ID, Name: t.Name}
}

func identifiers(snaps []Snapshot) []ResourceIdentifier {
	ids := make([]ResourceIdentifier, 0, len(snaps))
	for _, s := range snaps {
		ids = append(ids, s.Identifier())
	}
	return ids
}
