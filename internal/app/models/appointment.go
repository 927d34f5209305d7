package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusCheckedIn  AppointmentStatus = "checked-in"
	AppointmentStatusInProgress AppointmentStatus = "in-progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no-show"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCheckedIn, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// Active reports whether the appointment still holds its slot. Only
// cancellation releases the slot; completed and no-show keep it booked.
func (s AppointmentStatus) Active() bool {
	return s != AppointmentStatusCancelled
}

type AppointmentType string

const (
	AppointmentTypeInPerson AppointmentType = "in-person"
	AppointmentTypeVirtual  AppointmentType = "virtual"
)

// Appointment is a booking against exactly one TimeSlot.
type Appointment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DoctorID       string             `bson:"doctorId" json:"doctorId"`
	PatientID      string             `bson:"patientId" json:"patientId"`
	TimeSlotID     string             `bson:"timeSlotId" json:"timeSlotId"`
	Status         AppointmentStatus  `bson:"status" json:"status"`
	Type           AppointmentType    `bson:"type" json:"type"`
	ReasonForVisit string             `bson:"reasonForVisit,omitempty" json:"reasonForVisit,omitempty"`
	MeetingLink    string             `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`
	MeetingEventID string             `bson:"meetingEventId,omitempty" json:"meetingEventId,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
