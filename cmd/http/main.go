package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicore-service/internal/app/config"
	"clinicore-service/internal/app/delivery/http/controllers"
	"clinicore-service/internal/app/delivery/http/middlewares"
	"clinicore-service/internal/app/delivery/http/routers"
	"clinicore-service/internal/app/drivers/database"
	"clinicore-service/internal/app/drivers/logger"
	"clinicore-service/internal/app/drivers/messaging"
	miniodriver "clinicore-service/internal/app/drivers/storage"
	"clinicore-service/internal/app/services/calendar"
	"clinicore-service/internal/app/services/core/appointments"
	"clinicore-service/internal/app/services/core/calendarsync"
	"clinicore-service/internal/app/services/core/credentials"
	"clinicore-service/internal/app/services/core/doctors"
	"clinicore-service/internal/app/services/core/meetings"
	"clinicore-service/internal/app/services/core/patients"
	"clinicore-service/internal/app/services/core/slots"
	"clinicore-service/internal/app/services/core/templates"
	"clinicore-service/internal/app/services/shared/locker"
	"clinicore-service/internal/app/services/shared/notification"
	redisrepo "clinicore-service/internal/app/services/shared/redis"
	"clinicore-service/internal/app/services/shared/storage"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	startupLog := logger.NewLogrusLogger(internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		startupLog.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConnection := messaging.NewRabbitMQ(driverConfig)
	minioClient := miniodriver.NewMinio(driverConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		Mongo:          mongoClient,
		Redis:          redisClient,
		Logger:         zapLogger,
		RabbitMQ:       rabbitConnection,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	dbName := driverConfig.MongoDB.DbName

	// Shared infrastructure
	redisRepository := redisrepo.NewRedisRepository(redisClient)
	lockerService := locker.NewLockService(redisRepository, zapLogger)
	notificationPublisher := notification.NewRabbitMQPublisher(rabbitConnection, zapLogger)
	syncReportStorage := storage.NewMinioSyncReportStorage(minioClient, driverConfig.Minio.BucketName, zapLogger)

	// Repositories
	doctorRepository := doctors.NewDoctorMongoRepository(mongoClient, dbName)
	patientRepository := patients.NewPatientMongoRepository(mongoClient, dbName)
	templateRepository := templates.NewTemplateMongoRepository(mongoClient, dbName)
	slotRepository := slots.NewSlotMongoRepository(mongoClient, dbName)
	appointmentRepository := appointments.NewAppointmentMongoRepository(mongoClient, dbName)
	credentialRepository := credentials.NewCredentialMongoRepository(mongoClient, dbName)

	// Calendar provider clients
	tokenClient := calendar.NewTokenClient(internalConfig.Calendar)
	calendarClientFactory := calendar.NewEventsClientFactory(internalConfig.Calendar)

	// Usecases
	credentialService, err := credentials.NewCredentialService(
		credentialRepository,
		tokenClient,
		credentials.CalendarClientFactory(calendarClientFactory),
		internalConfig.Calendar.EncryptionKey,
		zapLogger,
	)
	if err != nil {
		startupLog.Fatalf("Error building credential service: %v", err)
	}

	slotUsecase := slots.NewSlotUsecase(slotRepository, templateRepository, doctorRepository, internalConfig, zapLogger)
	appointmentUsecase := appointments.NewAppointmentUsecase(appointmentRepository, slotRepository, doctorRepository, patientRepository, notificationPublisher, zapLogger)
	syncUsecase := calendarsync.NewSyncUsecase(slotRepository, doctorRepository, credentialService, lockerService, syncReportStorage, notificationPublisher, internalConfig, zapLogger)
	meetingUsecase := meetings.NewMeetingUsecase(appointmentRepository, slotRepository, doctorRepository, patientRepository, credentialService, zapLogger)

	// Slot top-up worker
	slotWorker := slots.NewWorker(zapLogger, internalConfig, lockerService, templateRepository, slotUsecase)
	slotWorker.Start(context.Background())
	bootstrap.SlotWorkerStop = slotWorker.Stop

	// Delivery
	m := middlewares.NewMiddlewares(zapLogger, internalConfig)
	scheduleController := controllers.NewScheduleController(zapLogger, slotUsecase, internalConfig)
	appointmentController := controllers.NewAppointmentController(zapLogger, appointmentUsecase, meetingUsecase, internalConfig)
	calendarController := controllers.NewCalendarController(zapLogger, credentialService, syncUsecase, doctorRepository, internalConfig)

	routers.SetupRoutes(chiRouter, internalConfig, m, scheduleController, appointmentController, calendarController)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			startupLog.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		startupLog.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		startupLog.Fatalf("Error during dependency shutdown: %v", err)
	}

	startupLog.Println("Server exiting")
}
