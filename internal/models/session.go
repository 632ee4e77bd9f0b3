package models

import "time"

// Session describes a live directory session
type Session struct {
	ID        string    `json:"session_id"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}
