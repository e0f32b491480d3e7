package app

import (
	"context"
	"strconv"
	"time"

	"dhrubfoundation/internal/config"
	"dhrubfoundation/internal/db"
	"dhrubfoundation/internal/handlers"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/repository"
	"dhrubfoundation/internal/routes"
	"dhrubfoundation/internal/services"
	"dhrubfoundation/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(context.Background(), conn); err != nil {
		return nil, err
	}

	for _, dir := range []string{cfg.UploadDir, cfg.ExportDir, "static/data"} {
		if err := utils.EnsureDir(dir); err != nil {
			return nil, err
		}
	}

	// Репозитории
	adminRepo := repository.NewAdminRepository(conn)
	donationRepo := repository.NewDonationRepository(conn)
	activityRepo := repository.NewActivityRepository(conn)
	mediaRepo := repository.NewMediaRepository(conn)
	eventRepo := repository.NewEventRepository(conn)

	// Сервисы
	activityService := services.NewActivityService(activityRepo)
	authService := services.NewAuthService(adminRepo, activityService)
	emailService := services.NewEmailService(cfg)
	upiService := services.NewUPIService(cfg.UPIPayeeID, cfg.UPIPayeeName)
	artifactService := services.NewArtifactService(cfg.UploadDir, cfg.UPIPayeeName)
	donationService := services.NewDonationService(donationRepo, artifactService, upiService)
	exportService := services.NewExportService(donationRepo, cfg.ExportDir)
	mediaService := services.NewMediaService(mediaRepo, activityService, cfg.UploadDir)
	eventService := services.NewEventService(eventRepo, activityService)

	resetTTL := time.Hour
	if m, err := strconv.Atoi(cfg.PasswordResetTTLMin); err == nil && m > 0 {
		resetTTL = time.Duration(m) * time.Minute
	}
	adminService := services.NewAdminService(adminRepo, activityService, cfg.JWTSecret, cfg.SiteURL, resetTTL)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService, cfg)
	passwordHandler := handlers.NewPasswordHandler(adminService)
	donationHandler := handlers.NewDonationHandler(donationService, exportService, activityService)
	adminHandler := handlers.NewAdminHandler(adminService, donationService, activityService, mediaService)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	pagesHandler := handlers.NewPagesHandler(cfg)
	eventHandler := handlers.NewEventHandler(eventService)
	logsHandler := handlers.NewLogsHandler()

	// Первичная учётка master, если таблица пуста
	if cfg.SeedAdminPassword != "" {
		if err := adminService.EnsureSeedAdmin(context.Background(),
			cfg.SeedAdminUsername, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			logger.Log.Error("Не удалось создать первичную учётку", zap.Error(err))
		}
	}

	// Периодическая чистка просроченных reset-токенов
	adminService.StartResetTokenSweeper()

	// Воркеры email
	for i := 0; i < 3; i++ {
		services.StartEmailWorker(emailService)
	}

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, adminRepo,
		authHandler, passwordHandler, donationHandler, adminHandler,
		mediaHandler, pagesHandler, eventHandler, logsHandler)

	return router, nil
}
