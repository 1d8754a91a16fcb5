package entity

import "time"

// Property is a real-estate listing. UserID is the owner and never changes
// after creation.
type Property struct {
	ID          string    `json:"id"`
	Title       string    `json:"titulo"`
	Description string    `json:"descripcion"`
	Rooms       int       `json:"habitaciones"`
	Parking     int       `json:"estacionamientos"`
	Bathrooms   int       `json:"wc"`
	Street      string    `json:"calle"`
	Lat         string    `json:"lat"`
	Lng         string    `json:"lng"`
	Image       string    `json:"imagen"`
	Published   bool      `json:"publicado"`
	PriceID     int       `json:"precioId"`
	CategoryID  int       `json:"categoriaId"`
	UserID      string    `json:"usuarioId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// read-side joins, empty unless the query loads them
	PriceName    string `json:"precio,omitempty"`
	CategoryName string `json:"categoria,omitempty"`
	MessageCount int    `json:"mensajes"`
}

// IsOwnedBy reports whether userID created this property.
func (p *Property) IsOwnedBy(userID string) bool {
	return userID != "" && p.UserID == userID
}
