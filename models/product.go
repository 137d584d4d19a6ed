package models

// ProductWeight is the unit delivery volume of one item, in litres.
type ProductWeight struct {
	Value float64 `json:"value" bson:"value"`
	Unit  string  `json:"unit,omitempty" bson:"unit,omitempty"`
}

// Product mirrors a document in the Products collection. The catalog is
// read-only from this system's perspective; it is maintained externally.
type Product struct {
	ProductID   string        `json:"product_id" bson:"product_id"`
	Name        string        `json:"name" bson:"name"`
	Description string        `json:"description" bson:"description"`
	Price       float64       `json:"price" bson:"price"`
	Category    string        `json:"category" bson:"category"`
	ImageURL    string        `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Weight      ProductWeight `json:"weight" bson:"weight"`
}
