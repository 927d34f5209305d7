package requests

type TemplateWindow struct {
	Weekday             int    `json:"weekday" validate:"min=0,max=6"`
	StartTime           string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime             string `json:"end_time" validate:"required,datetime=15:04"`
	SlotDurationMinutes int    `json:"slot_duration_minutes" validate:"required,min=5,max=240"`
}

type GenerateSlotsRequest struct {
	StartDate string           `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string           `json:"end_date" validate:"required,datetime=2006-01-02"`
	Template  []TemplateWindow `json:"template" validate:"required,min=1,dive"`
	Persist   bool             `json:"persist"`
}
