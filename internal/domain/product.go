package domain

// Product is a single catalog record. Products are loaded once at startup
// from the catalog file and never mutated afterwards.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
}

// Match pairs a product with its similarity score against the query image.
// Scores are in [0, 1], rounded to 4 decimal places.
type Match struct {
	Product    Product `json:"product"`
	Similarity float64 `json:"similarity"`
}
