package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Patient struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}
