package routers

import (
	"clinicore-service/internal/app/delivery/http/controllers"
	"clinicore-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, m *middlewares.Middlewares, c *controllers.AppointmentController) {
	router.Route("/appointments", func(r chi.Router) {
		r.Use(m.Authenticate)
		r.Post("/", c.Create)
		r.Route("/{appointmentID}", func(r chi.Router) {
			r.Patch("/", c.Update)
			r.Post("/cancel", c.Cancel)
			r.Delete("/", c.Delete)
			r.Post("/meeting-link", c.EnsureMeetingLink)
		})
	})

	router.With(m.Authenticate).Get("/patients/{patientID}/appointments", c.FindByPatient)
}
