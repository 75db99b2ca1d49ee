package domain

// Product is a catalog entry in the products collection. The checkout flow
// only reads its stock; the rest of the fields exist for seeding and imports.
type Product struct {
	ID        string  `json:"id" firestore:"-"`
	Nombre    string  `json:"nombre" firestore:"nombre"`
	Precio    float64 `json:"precio" firestore:"precio"`
	Stock     int     `json:"stock" firestore:"stock"`
	ImgURL    string  `json:"imgUrl,omitempty" firestore:"imgUrl"`
	Categoria string  `json:"categoria,omitempty" firestore:"categoria"`
}
