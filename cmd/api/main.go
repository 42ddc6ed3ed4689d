package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/climate-service/docs"
	"github.com/jhoicas/climate-service/internal/application/auth"
	"github.com/jhoicas/climate-service/internal/application/ports"
	"github.com/jhoicas/climate-service/internal/application/usecase"
	infrapdf "github.com/jhoicas/climate-service/internal/infrastructure/pdf"
	"github.com/jhoicas/climate-service/internal/infrastructure/postgres"
	"github.com/jhoicas/climate-service/internal/infrastructure/rabbitmq"
	httpRouter "github.com/jhoicas/climate-service/internal/interfaces/http"
	"github.com/jhoicas/climate-service/pkg/config"
	"github.com/jhoicas/climate-service/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// @title						Climate Service API
// @version					1.0
// @description				API del servicio técnico de equipos de climatización: usuarios, solicitudes, comentarios y estadísticas.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description				Escriba "Bearer" seguido del token JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		panic("configuración inválida: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if cfg.DB.Migrate {
		if err := postgres.Migrate(pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	txRunner := postgres.NewTxRunner(pool, log)
	userRepo := postgres.NewUserRepository(pool, txRunner)
	requestRepo := postgres.NewRequestRepository(pool, txRunner)
	commentRepo := postgres.NewCommentRepository(pool, txRunner)
	statsRepo := postgres.NewStatsRepository(pool)

	// Eventos: sin RABBITMQ_URL se descartan en silencio
	var events ports.EventPublisher = ports.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, 5, 2*time.Second)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		publisher, err := rabbitmq.NewPublisher(conn, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Fatal().Err(err).Msg("publicador de eventos")
		}
		defer publisher.Close()
		events = publisher
	}

	// PDF: hoja de trabajo de la solicitud
	pdfGenerator, err := infrapdf.NewMarotoWorkOrderGenerator(cfg.Web.PDFFontPath, cfg.Feedback.URL)
	if err != nil {
		log.Fatal().Err(err).Str("font", cfg.Web.PDFFontPath).Msg("generador PDF")
	}
	qrHandler, err := httpRouter.NewQRHandler(cfg.Feedback.URL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("código QR de encuesta")
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	userUC := usecase.NewUserUseCase(userRepo, log)
	requestUC := usecase.NewRequestUseCase(requestRepo, userRepo, commentRepo, events, log)
	clientUC := usecase.NewClientUseCase(requestRepo, commentRepo, events, log)
	commentUC := usecase.NewCommentUseCase(commentRepo)
	statsUC := usecase.NewStatsUseCase(statsRepo)
	workOrderUC := usecase.NewWorkOrderUseCase(requestRepo, userRepo, commentRepo, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.App.SwaggerEnabled {
		app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return c.SendString(docs.SwaggerInfo.ReadDoc())
		})
		if _, err := os.Stat(swaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: swaggerFile,
				Path:     "docs",
				Title:    "Climate Service API",
			}))
		} else {
			log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, UI desactivada")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		RequestUC:   requestUC,
		ClientUC:    clientUC,
		CommentUC:   commentUC,
		StatsUC:     statsUC,
		WorkOrderUC: workOrderUC,
		QR:          qrHandler,
		JWTSecret:   cfg.JWT.Secret,
		LoginRate:   cfg.Login.RatePerSecond,
		LoginBurst:  cfg.Login.Burst,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
