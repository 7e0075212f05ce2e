package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a menu item. Managers never physically delete a
// product; "deleting" flips Active to false so existing orders keep a
// valid reference.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	ImageRef    string             `bson:"image_ref" json:"image_ref"`
	Active      bool               `bson:"active" json:"active"`
	CreatedBy   primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
}
