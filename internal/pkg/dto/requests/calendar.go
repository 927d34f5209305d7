package requests

type ConnectCalendarRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,min=8"`
}
