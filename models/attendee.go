package models

import "time"

const TypeAttendees = "attendees"

// Attendee это запись о допуске на хакатон. ID хранит email либо внешний
// идентификатор чата. SlackID заполняется лениво при первом успешном
// поиске в каталоге и после этого не инвалидируется.
type Attendee struct {
	ID        string    `json:"id" db:"id"`
	SlackID   *string   `json:"slackid,omitempty" db:"slackid"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (a *Attendee) Resource() Resource {
	attrs := map[string]interface{}{}
	if a.SlackID != nil {
		attrs["slackid"] = *a.SlackID
	}
	return Resource{
		Type:       TypeAttendees,
		ID:         a.ID,
		Attributes: attrs,
	}
}
