// web sirve el frontend HTML. No toca la base de datos: todo pasa por la API (WEB_API_URL).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/climate-service/internal/infrastructure/redis"
	"github.com/jhoicas/climate-service/internal/interfaces/web"
	"github.com/jhoicas/climate-service/pkg/config"
	"github.com/jhoicas/climate-service/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "web",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("api", cfg.Web.APIURL).
		Msg("iniciando frontend")

	// Sesiones: Redis si REDIS_ADDR está definido, si no memoria del proceso
	var storage fiber.Storage
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisStorage, err := redis.NewSessionStorage(ctx, cfg.Redis)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer redisStorage.Close()
		storage = redisStorage
	} else {
		log.Warn().Msg("REDIS_ADDR vacío, sesiones en memoria")
	}

	app, err := web.NewApp(web.Deps{
		API:         web.NewAPIClient(cfg.Web.APIURL, cfg.Web.APITimeout),
		Sessions:    web.NewSessionStore(storage, cfg.Web.SessionTTL, cfg.Web.CookieSecure),
		FeedbackURL: cfg.Feedback.URL,
		AppName:     cfg.App.Name + "-web",
		Log:         log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas del frontend")
	}

	go func() {
		if err := app.Listen(cfg.Web.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor web finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando frontend...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del frontend")
	}

	log.Info().Msg("frontend detenido")
}
