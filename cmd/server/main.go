package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/UjjawalSah/MailScheduler/internal/config"
	"github.com/UjjawalSah/MailScheduler/internal/controller"
	"github.com/UjjawalSah/MailScheduler/internal/db"
	"github.com/UjjawalSah/MailScheduler/internal/handler"
	"github.com/UjjawalSah/MailScheduler/internal/logging"
	"github.com/UjjawalSah/MailScheduler/internal/mailer"
	"github.com/UjjawalSah/MailScheduler/internal/repository"
	"github.com/UjjawalSah/MailScheduler/internal/scheduler"
	"github.com/UjjawalSah/MailScheduler/internal/service"
)

func main() {
	root := logrus.New()
	root.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log := logging.New(root, "server")

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.WithError(err).Fatal("failed to create upload directory")
	}

	conn, err := db.Connect(cfg.DatabaseDSN())
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer conn.Close()

	campaignRepo := &repository.CampaignRepository{DB: conn}
	scheduleRepo := &repository.ScheduleRepository{DB: conn}

	sched := scheduler.New(logging.New(root, "scheduler"))
	defer sched.Stop()

	worker := &service.DeliveryWorker{
		ScheduleRepo: scheduleRepo,
		Mailer: &mailer.SMTPMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Timeout:  cfg.SendTimeout,
			Log:      logging.New(root, "mailer"),
		},
		TrackingBaseURL: cfg.TrackingBaseURL,
		Log:             logging.New(root, "delivery"),
	}

	campaignService := &service.CampaignService{
		CampaignRepo:  campaignRepo,
		ScheduleRepo:  scheduleRepo,
		Scheduler:     sched,
		Worker:        worker,
		DefaultSender: cfg.DefaultSender,
		Log:           logging.New(root, "service"),
	}

	recovered, err := campaignService.RecoverPendingSchedules()
	if err != nil {
		log.WithError(err).Error("recovery sweep failed")
	} else if recovered > 0 {
		log.WithField("count", recovered).Info("re-registered pending schedules")
	}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
		UploadDir:       cfg.UploadDir,
		Log:             logging.New(root, "controller"),
	}
	trackingHandler := &handler.TrackingHandler{
		ScheduleRepo: scheduleRepo,
		Log:          logging.New(root, "tracking"),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	r.Post("/api/submit-form", campaignController.SubmitForm)
	r.Get("/track_open", trackingHandler.TrackOpen)
	r.Get("/track_click", trackingHandler.TrackClick)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.WithField("addr", addr).Info("mail scheduler listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
