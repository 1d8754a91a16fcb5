package entity

import "time"

// Message is a buyer-to-seller contact note on a property.
type Message struct {
	ID         string    `json:"id"`
	Body       string    `json:"mensaje"`
	PropertyID string    `json:"propiedadId"`
	UserID     string    `json:"usuarioId"`
	CreatedAt  time.Time `json:"createdAt"`

	SenderName  string `json:"nombre,omitempty"`
	SenderEmail string `json:"email,omitempty"`
}
