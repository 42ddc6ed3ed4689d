package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/application/auth"
	"github.com/jhoicas/climate-service/internal/application/usecase"
	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/jhoicas/climate-service/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	RequestUC   *usecase.RequestUseCase
	ClientUC    *usecase.ClientUseCase
	CommentUC   *usecase.CommentUseCase
	StatsUC     *usecase.StatsUseCase
	WorkOrderUC *usecase.WorkOrderUseCase
	QR          *QRHandler
	JWTSecret   string
	LoginRate   float64
	LoginBurst  int
	Log         *logger.Logger
}

// Conjuntos de roles por endpoint.
var (
	rolesStaff          = entity.StaffRoles
	rolesUserReaders    = []entity.Role{entity.RoleManager, entity.RoleQualityManager}
	rolesManager        = []entity.Role{entity.RoleManager}
	rolesRequestCreator = []entity.Role{entity.RoleOperator, entity.RoleSpecialist, entity.RoleManager}
	rolesSupervisors    = []entity.Role{entity.RoleManager, entity.RoleQualityManager}
	rolesCommentWriters = []entity.Role{entity.RoleSpecialist, entity.RoleManager, entity.RoleQualityManager}
	rolesCustomer       = []entity.Role{entity.RoleCustomer}
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	authMW := AuthMiddleware(deps.JWTSecret)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup := app.Group("/auth")
	authGroup.Post("/login", RateLimit(deps.LoginRate, deps.LoginBurst), authHandler.Login)
	authGroup.Get("/me", authMW, authHandler.Me)

	// QR (público)
	if deps.QR != nil {
		app.Get("/qr/feedback", deps.QR.Feedback)
	}

	// Users
	userHandler := NewUserHandler(deps.UserUC, log)
	users := app.Group("/users", authMW)
	users.Get("/", RequireRole(rolesUserReaders...), userHandler.List)
	users.Post("/", RequireRole(rolesManager...), userHandler.Create)
	users.Get("/:id", RequireRole(rolesUserReaders...), userHandler.GetByID)
	users.Put("/:id", RequireRole(rolesManager...), userHandler.Update)
	users.Delete("/:id", RequireRole(rolesManager...), userHandler.Delete)

	// Requests: las rutas fijas (search, stats) antes de /:id
	requestHandler := NewRequestHandler(deps.RequestUC, deps.WorkOrderUC, log)
	statsHandler := NewStatsHandler(deps.StatsUC, log)
	requests := app.Group("/requests", authMW)
	requests.Get("/", RequireRole(rolesStaff...), requestHandler.List)
	requests.Post("/", RequireRole(rolesRequestCreator...), requestHandler.Create)
	requests.Get("/search", RequireRole(rolesStaff...), requestHandler.Search)
	requests.Get("/stats/count", RequireRole(rolesStaff...), statsHandler.Count)
	requests.Get("/stats/avg-time", RequireRole(rolesStaff...), statsHandler.AverageTime)
	requests.Get("/stats/by-tech", RequireRole(rolesStaff...), statsHandler.ByTech)
	requests.Get("/stats/by-problem-type", RequireRole(rolesStaff...), statsHandler.ByProblemType)
	requests.Get("/:id", RequireRole(rolesStaff...), requestHandler.GetByID)
	requests.Put("/:id", RequireRole(rolesStaff...), requestHandler.Update)
	requests.Delete("/:id", RequireRole(rolesManager...), requestHandler.Delete)
	requests.Post("/:id/assign", RequireRole(rolesSupervisors...), requestHandler.Assign)
	requests.Post("/:id/extend", RequireRole(rolesSupervisors...), requestHandler.Extend)
	requests.Get("/:id/comments", RequireRole(rolesStaff...), requestHandler.Comments)
	requests.Get("/:id/pdf", RequireRole(rolesStaff...), requestHandler.WorkOrderPDF)

	// Comments
	commentHandler := NewCommentHandler(deps.CommentUC, log)
	comments := app.Group("/comments", authMW)
	comments.Get("/", RequireRole(rolesStaff...), commentHandler.List)
	comments.Post("/", RequireRole(rolesCommentWriters...), commentHandler.Create)
	comments.Get("/:id", RequireRole(rolesStaff...), commentHandler.GetByID)
	comments.Put("/:id", RequireRole(rolesCommentWriters...), commentHandler.Update)
	comments.Delete("/:id", RequireRole(rolesSupervisors...), commentHandler.Delete)

	// Autoservicio del cliente
	clientHandler := NewClientHandler(deps.ClientUC, log)
	client := app.Group("/client/my-requests", authMW, RequireRole(rolesCustomer...))
	client.Get("/", clientHandler.List)
	client.Post("/", clientHandler.Create)
	client.Get("/:id", clientHandler.GetByID)
	client.Get("/:id/comments", clientHandler.Comments)
}
