package routes

import (
	"net/http"

	"dhrubfoundation/internal/handlers"
	"dhrubfoundation/internal/middleware"
	"dhrubfoundation/internal/permissions"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	admins middleware.AdminReader,
	authHandler *handlers.AuthHandler,
	passwordHandler *handlers.PasswordHandler,
	donationHandler *handlers.DonationHandler,
	adminHandler *handlers.AdminHandler,
	mediaHandler *handlers.MediaHandler,
	pagesHandler *handlers.PagesHandler,
	eventHandler *handlers.EventHandler,
	logsHandler *handlers.LogsHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recoverer)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/home", pagesHandler.Home).Methods("GET")
	api.HandleFunc("/about", pagesHandler.About).Methods("GET")
	api.HandleFunc("/members", pagesHandler.Members).Methods("GET")
	api.HandleFunc("/contact", pagesHandler.Contact).Methods("POST")
	api.HandleFunc("/gallery", mediaHandler.Gallery).Methods("GET")
	api.HandleFunc("/events", eventHandler.Upcoming).Methods("GET")

	api.HandleFunc("/donate", donationHandler.Submit).Methods("POST")

	api.HandleFunc("/admin/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/password/forgot", passwordHandler.Forgot).Methods("POST")
	api.HandleFunc("/password/reset", passwordHandler.Reset).Methods("POST")

	// Сгенерированные артефакты (QR, счета) и галерея
	router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir("static"))),
	).Methods("GET")

	// --- Защищённые JWT ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(func(next http.Handler) http.Handler {
		return middleware.JWTAuth(admins, next)
	})

	// Дашборд доступен всем активным ролям
	dashboard := admin.PathPrefix("").Subrouter()
	dashboard.Use(middleware.RequireCapability(permissions.CapViewDashboard))
	dashboard.HandleFunc("/dashboard", adminHandler.Dashboard).Methods("GET")

	// Работа с пожертвованиями — master и manager
	donations := admin.PathPrefix("/donations").Subrouter()
	donations.Use(middleware.RequireCapability(permissions.CapManageDonations))
	donations.HandleFunc("", donationHandler.List).Methods("GET")
	donations.HandleFunc("/export", donationHandler.Export).Methods("GET")
	donations.HandleFunc("/{id:[0-9]+}/verify", donationHandler.ToggleVerification).Methods("PATCH")

	// Управление учётками — только master
	accounts := admin.PathPrefix("/admins").Subrouter()
	accounts.Use(middleware.RequireCapability(permissions.CapManageAdmins))
	accounts.HandleFunc("", adminHandler.GetAdmins).Methods("GET")
	accounts.HandleFunc("", adminHandler.CreateAdmin).Methods("POST")
	accounts.HandleFunc("/{id:[0-9]+}", adminHandler.UpdateAdmin).Methods("PATCH")
	accounts.HandleFunc("/{id:[0-9]+}/toggle", adminHandler.ToggleActive).Methods("PATCH")

	// Системные разделы — только master
	system := admin.PathPrefix("").Subrouter()
	system.Use(middleware.RequireCapability(permissions.CapSystemSettings))
	system.HandleFunc("/activity", adminHandler.Activity).Methods("GET")
	system.HandleFunc("/events", eventHandler.Create).Methods("POST")
	system.HandleFunc("/media", mediaHandler.Upload).Methods("POST")
	system.HandleFunc("/media/{id:[0-9]+}", mediaHandler.Delete).Methods("DELETE")
	system.HandleFunc("/logs/days", logsHandler.ListDays).Methods("GET")
	system.HandleFunc("/logs", logsHandler.GetLogs).Methods("GET")
	system.HandleFunc("/logs/download", logsHandler.DownloadRaw).Methods("GET")
}
