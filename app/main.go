package main

import (
	_ "dhrubfoundation/docs"
	"dhrubfoundation/internal/app"
	"dhrubfoundation/internal/config"
	"dhrubfoundation/internal/logger"
	"net/http"

	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title          Dhrub Foundation API
// @version        1.0
// @description    Документация API фонда (пожертвования, админка, галерея, логи).

// @BasePath  /
// @schemes   https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	logger.InitLogger()
	defer logger.Log.Sync()

	if err != nil {
		logger.Log.Fatal("Ошибка загрузки конфига", zap.Error(err))
	}

	router, err := app.InitApp(cfg)
	if err != nil {
		logger.Log.Fatal("Ошибка инициализации приложения", zap.Error(err))
	}

	// Swagger по префиксу /swagger/
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Разрешающий CORS: любой Origin через AllowOriginFunc,
	// wildcard в AllowedOrigins с credentials запрещён спецификацией.
	corsMiddleware := cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool { return true },

		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           86400, // кэш preflight на сутки
	})

	logger.Log.Info("Сервер запущен", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, corsMiddleware(router)); err != nil {
		logger.Log.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}
