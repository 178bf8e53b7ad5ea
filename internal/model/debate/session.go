package debate

import "time"

// Session identifies one orchestrated debate run exposed over the API.
type Session struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}
