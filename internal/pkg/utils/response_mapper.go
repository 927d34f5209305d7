package utils

import (
	"time"

	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/dto/responses"
)

func MapTimeSlotToResponse(slot *models.TimeSlot) responses.TimeSlotResponse {
	return responses.TimeSlotResponse{
		ID:              slot.ID.Hex(),
		DoctorID:        slot.DoctorID,
		Date:            slot.Date,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		Status:          string(slot.Status),
		ExternalEventID: slot.ExternalEventID,
		CreatedBy:       slot.CreatedBy,
	}
}

func MapTimeSlotsToResponse(slots []models.TimeSlot) []responses.TimeSlotResponse {
	mapped := make([]responses.TimeSlotResponse, 0, len(slots))
	for i := range slots {
		mapped = append(mapped, MapTimeSlotToResponse(&slots[i]))
	}
	return mapped
}

func MapAppointmentToResponse(appointment *models.Appointment) responses.AppointmentResponse {
	return responses.AppointmentResponse{
		ID:             appointment.ID.Hex(),
		DoctorID:       appointment.DoctorID,
		PatientID:      appointment.PatientID,
		TimeSlotID:     appointment.TimeSlotID,
		Status:         string(appointment.Status),
		Type:           string(appointment.Type),
		ReasonForVisit: appointment.ReasonForVisit,
		MeetingLink:    appointment.MeetingLink,
		CreatedAt:      appointment.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      appointment.UpdatedAt.Format(time.RFC3339),
	}
}

func MapAppointmentsToResponse(appointments []models.Appointment) []responses.AppointmentResponse {
	mapped := make([]responses.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		mapped = append(mapped, MapAppointmentToResponse(&appointments[i]))
	}
	return mapped
}
