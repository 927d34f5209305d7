package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AvailabilityTemplate is one weekly recurring window for a doctor. The slot
// generator expands it into discrete TimeSlots for a date range; the top-up
// worker uses stored templates to maintain a rolling window.
type AvailabilityTemplate struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DoctorID            string             `bson:"doctorId" json:"doctorId"`
	Weekday             time.Weekday       `bson:"weekday" json:"weekday"`
	StartTime           string             `bson:"startTime" json:"startTime"`
	EndTime             string             `bson:"endTime" json:"endTime"`
	SlotDurationMinutes int                `bson:"slotDurationMinutes" json:"slotDurationMinutes"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}
