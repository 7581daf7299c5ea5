package main

import (
	"context"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hirestack/hirestack/config"
	"github.com/hirestack/hirestack/internal/api/handlers"
	"github.com/hirestack/hirestack/internal/api/middleware"
	"github.com/hirestack/hirestack/internal/api/routes"
	"github.com/hirestack/hirestack/internal/cache"
	"github.com/hirestack/hirestack/internal/logger"
	"github.com/hirestack/hirestack/internal/mailer"
	"github.com/hirestack/hirestack/internal/models"
	mongorepo "github.com/hirestack/hirestack/internal/repositories/mongo"
	pgrepo "github.com/hirestack/hirestack/internal/repositories/postgres"
	"github.com/hirestack/hirestack/internal/services"
	"github.com/hirestack/hirestack/internal/storage"
	"github.com/hirestack/hirestack/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	log.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	log.Info("Redis connected")

	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	log.Info("MongoDB connected")

	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("Mongo index error")
	}

	db := config.PostgresDB
	if err := db.AutoMigrate(
		&models.User{}, &models.EmployeeProfile{}, &models.CandidateProfile{},
		&models.Company{}, &models.Skill{}, &models.Job{},
		&models.JobApplication{}, &models.ApplicationSkill{},
		&models.Interview{}, &models.InterviewRound{}, &models.InterviewFeedback{},
		&models.EmailOutbox{},
	); err != nil {
		log.WithError(err).Fatal("migration error")
	}

	ctx := context.Background()

	// repositories
	tx := pgrepo.NewTxManager(db)
	appRepo := pgrepo.NewApplicationRepo(db)
	interviewRepo := pgrepo.NewInterviewRepo(db)
	roundRepo := pgrepo.NewRoundRepo(db)
	feedbackRepo := pgrepo.NewFeedbackRepo(db)
	jobRepo := pgrepo.NewJobRepo(db)
	companyRepo := pgrepo.NewCompanyRepo(db)
	skillRepo := pgrepo.NewSkillRepo(db)
	userRepo := pgrepo.NewUserRepo(db)
	candidateRepo := pgrepo.NewCandidateRepo(db)
	outboxRepo := pgrepo.NewOutboxRepo(db)
	notificationRepo := mongorepo.NewNotificationRepo(config.MongoDatabase())

	// infrastructure
	producer := mailer.NewOutboxProducer(outboxRepo)
	redisCache := cache.NewRedisCache(config.RedisClient)

	bucket := os.Getenv("GCS_BUCKET")
	uploader, err := storage.NewGCSUploader(ctx, bucket)
	if err != nil {
		log.WithError(err).Fatal("GCS init error")
	}
	defer uploader.Close()

	// services
	companyNamer := services.NewCompanyNamer(companyRepo)
	notificationSvc := services.NewNotificationService(notificationRepo, config.RedisClient, log)
	applicationSvc := services.NewApplicationService(
		tx, appRepo, interviewRepo, roundRepo, jobRepo, companyNamer,
		candidateRepo, userRepo, skillRepo, producer, log)
	interviewSvc := services.NewInterviewService(
		tx, interviewRepo, roundRepo, feedbackRepo, appRepo, jobRepo,
		userRepo, companyNamer, uploader, producer, redisCache, log)
	matcherSvc := services.NewMatcherService(
		tx, jobRepo, appRepo, candidateRepo, userRepo, producer, notificationSvc, log)
	jobSvc := services.NewJobService(jobRepo, companyRepo, skillRepo, log)
	skillSvc := services.NewSkillService(skillRepo)
	userSvc := services.NewUserService(tx, userRepo, candidateRepo, companyRepo, skillRepo, producer, log)

	// background workers
	relay := &workers.OutboxRelay{
		Redis:  config.RedisClient,
		Outbox: outboxRepo,
		Logger: log,
	}
	if err := relay.Start(ctx); err != nil {
		log.WithError(err).Fatal("outbox relay error")
	}

	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	sender := mailer.NewGomailSender(
		os.Getenv("SMTP_HOST"), smtpPort,
		os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"),
		os.Getenv("SMTP_FROM"),
	)
	pool := &workers.MailWorkerPool{
		Redis:  config.RedisClient,
		Sender: sender,
		Logger: log,
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("mail worker error")
	}

	// HTTP
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Applications:  handlers.NewApplicationHandler(applicationSvc),
		Interviews:    handlers.NewInterviewHandler(interviewSvc, userSvc),
		Rounds:        handlers.NewRoundHandler(interviewSvc),
		Jobs:          handlers.NewJobHandler(jobSvc, matcherSvc, userSvc),
		Skills:        handlers.NewSkillHandler(skillSvc),
		Notifications: handlers.NewNotificationHandler(notificationSvc),
		Users:         handlers.NewUserHandler(userSvc),
		WS:            handlers.NewWSHandler(config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
