package routers

import (
	"clinicore-service/internal/app/delivery/http/controllers"
	"clinicore-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

// attachCalendarRoutes mounts the calendar endpoints under
// /doctors/{doctorID}/calendar.
func attachCalendarRoutes(router chi.Router, m *middlewares.Middlewares, c *controllers.CalendarController) {
	router.Route("/calendar", func(r chi.Router) {
		r.Use(m.Authenticate)
		r.Post("/connect", c.Connect)
		r.Delete("/", c.Disconnect)
		r.Post("/import", c.Import)
		r.Post("/export", c.Export)
		r.Post("/sync", c.Sync)
	})
}
