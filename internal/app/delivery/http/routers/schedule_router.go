package routers

import (
	"clinicore-service/internal/app/delivery/http/controllers"
	"clinicore-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

// attachScheduleRoutes mounts the doctor-scoped slot endpoints under
// /doctors/{doctorID}.
func attachScheduleRoutes(router chi.Router, m *middlewares.Middlewares, c *controllers.ScheduleController) {
	router.Get("/slots", c.ListSlots)
	router.With(m.Authenticate).Post("/slots", c.GenerateSlots)
}

// attachSlotRoutes mounts the slot-scoped endpoints under /slots/{slotID}.
func attachSlotRoutes(router chi.Router, m *middlewares.Middlewares, c *controllers.ScheduleController) {
	router.Route("/slots/{slotID}", func(r chi.Router) {
		r.Use(m.Authenticate)
		r.Post("/block", c.BlockSlot)
		r.Post("/release", c.ReleaseSlot)
		r.Delete("/", c.DeleteSlot)
	})
}
