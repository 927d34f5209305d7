package utils

import (
	"clinicore-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("slot_status", validateSlotStatus)
	validate.RegisterValidation("doctor_role", validateDoctorRole)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateSlotStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "available" || value == "booked" || value == "blocked"
}

func validateDoctorRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == constvars.RoleDoctor || value == constvars.RoleClinicAdmin
}
