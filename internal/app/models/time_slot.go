package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusBlocked   SlotStatus = "blocked"
)

func (s SlotStatus) Valid() bool {
	switch s {
	case SlotStatusAvailable, SlotStatusBooked, SlotStatusBlocked:
		return true
	}
	return false
}

// TimeSlot is one bookable interval for one doctor. Date is a timezone-naive
// calendar day (2006-01-02) and StartTime/EndTime are clinic-local wall clock
// (15:04), so lexicographic comparison orders them correctly.
type TimeSlot struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DoctorID        string             `bson:"doctorId" json:"doctorId"`
	Date            string             `bson:"date" json:"date"`
	StartTime       string             `bson:"startTime" json:"startTime"`
	EndTime         string             `bson:"endTime" json:"endTime"`
	Status          SlotStatus         `bson:"status" json:"status"`
	ExternalEventID string             `bson:"externalEventId,omitempty" json:"externalEventId,omitempty"`
	LastSyncedAt    *time.Time         `bson:"lastSyncedAt,omitempty" json:"lastSyncedAt,omitempty"`
	CreatedBy       string             `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Overlaps reports whether the [start, end) interval intersects the slot's
// interval on the same date.
func (s *TimeSlot) Overlaps(startTime, endTime string) bool {
	return s.StartTime < endTime && startTime < s.EndTime
}

// ExternallyLinked reports whether the slot is tied to an external calendar
// event and therefore must not be silently dropped or freed.
func (s *TimeSlot) ExternallyLinked() bool {
	return s.ExternalEventID != ""
}
