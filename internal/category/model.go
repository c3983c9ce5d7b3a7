package category

type Category struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	UserID int    `json:"-"`
}

// DefaultCategories is the fixed set seeded for every new user at
// registration.
var DefaultCategories = []string{
	"Moradia",
	"Água",
	"Luz",
	"Internet",
	"Mercado",
	"Transporte",
	"Saúde",
	"Cartão",
	"Assinaturas",
	"Educação",
	"Lazer",
}
