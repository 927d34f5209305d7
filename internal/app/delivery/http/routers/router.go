package routers

import (
	"time"

	"clinicore-service/internal/app/config"
	"clinicore-service/internal/app/delivery/http/controllers"
	"clinicore-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	m *middlewares.Middlewares,
	scheduleController *controllers.ScheduleController,
	appointmentController *controllers.AppointmentController,
	calendarController *controllers.CalendarController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second))

	router.Use(m.RequestIDMiddleware)
	router.Use(m.Logging(m.Log))
	router.Use(m.ErrorHandler)

	router.Route(internalConfig.App.EndpointPrefix, func(r chi.Router) {
		r.Route("/doctors/{doctorID}", func(r chi.Router) {
			attachScheduleRoutes(r, m, scheduleController)
			attachCalendarRoutes(r, m, calendarController)

			r.With(m.Authenticate).Get("/appointments", appointmentController.FindByDoctor)
		})

		attachSlotRoutes(r, m, scheduleController)
		attachAppointmentRoutes(r, m, appointmentController)
	})
}
