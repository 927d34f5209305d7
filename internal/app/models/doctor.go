package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Doctor is the minimal read model the scheduling core needs. Full doctor
// management lives in the outer CRUD layer.
type Doctor struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LicenseNumber string             `bson:"licenseNumber" json:"licenseNumber"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Timezone      string             `bson:"timezone,omitempty" json:"timezone,omitempty"`
}
