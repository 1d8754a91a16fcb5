package entity

// Category classifies a property (house, apartment, ...).
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Price is a price tier lookup row.
type Price struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
