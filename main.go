package main

import (
	"context"
	"log"

	api "classlink-backend/cmd/api"
	authdomain "classlink-backend/internal/auth/domain"
	authRepo "classlink-backend/internal/auth/repository"
	authUsecase "classlink-backend/internal/auth/usecase"
	eventdomain "classlink-backend/internal/event/domain"
	eventRepo "classlink-backend/internal/event/repository"
	eventUsecase "classlink-backend/internal/event/usecase"
	"classlink-backend/internal/notification"
	readdomain "classlink-backend/internal/readstate/domain"
	readRepo "classlink-backend/internal/readstate/repository"
	schoolDelivery "classlink-backend/internal/school/delivery"
	schooldomain "classlink-backend/internal/school/domain"
	schoolRepo "classlink-backend/internal/school/repository"
	"classlink-backend/pkg/config"
	"classlink-backend/pkg/database"
	"classlink-backend/pkg/fcm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&schooldomain.Class{},
		&schooldomain.Student{},
		&schooldomain.ParentStudent{},
		&eventdomain.Comment{},
		&eventdomain.ClassNotification{},
		&readdomain.ReadState{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	studentRepository := schoolRepo.NewStudentRepository(db)
	commentRepository := eventRepo.NewCommentRepository(db)
	notificationRepository := eventRepo.NewNotificationRepository(db)
	readStateRepository := readRepo.NewReadStateRepository(db)

	topics := map[notification.EventKind]string{
		notification.EventNewComment:             cfg.CommentTopic,
		notification.EventClassNotification:      cfg.ClassNotifTopic,
		notification.EventMultiClassNotification: cfg.MultiClassNotifTopic,
	}

	// Initialize the event feed and fan-out watcher.
	// Only start if project ID is configured.
	var publisher *notification.Publisher
	if cfg.GoogleProjectID != "" {
		// FCM client is optional: without it the pipeline still seeds read
		// states, it just has no transport to push through.
		var fcmClient *fcm.Client
		if cfg.FirebaseCredentials != "" {
			fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
			if err != nil {
				log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
			}
		} else {
			log.Printf("[WARN] No Firebase credentials configured, FCM disabled")
		}

		publisher, err = notification.NewPublisher(cfg.GoogleProjectID, topics, cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[ERROR] Failed to initialize event publisher: %v", err)
		}

		var sender notification.MulticastSender
		if fcmClient != nil {
			sender = fcmClient
		}
		resolver := notification.NewResolver(studentRepository, userRepository)
		dispatcher := notification.NewDispatcher(sender)
		sanitizer := notification.NewSanitizer(userRepository)
		pipeline := notification.NewPipeline(resolver, readStateRepository, dispatcher, sanitizer, cfg.DispatchTimeout)

		topicNames := []string{cfg.CommentTopic, cfg.ClassNotifTopic, cfg.MultiClassNotifTopic}
		watcher, err := notification.NewWatcher(cfg.GoogleProjectID, topicNames, pipeline, cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[ERROR] Failed to initialize event watcher: %v", err)
		} else {
			watcher.Start(context.Background())
		}
	} else {
		log.Printf("[WARN] GoogleProjectID not configured, notification fan-out disabled")
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, cfg)

	var eventPublisher eventUsecase.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}
	eventUsecaseInstance := eventUsecase.NewEventUsecase(commentRepository, notificationRepository, studentRepository, readStateRepository, eventPublisher)

	schoolHandler := schoolDelivery.NewSchoolHandler(studentRepository, userRepository)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, eventUsecaseInstance, schoolHandler, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
