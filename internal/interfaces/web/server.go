package web

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/jhoicas/climate-service/pkg/logger"
)

//go:embed templates
var templatesFS embed.FS

// Deps dependencias del frontend.
type Deps struct {
	API         *APIClient
	Sessions    *session.Store
	FeedbackURL string
	AppName     string
	Log         *logger.Logger
}

// Server páginas HTML; todos los datos pasan por la API.
type Server struct {
	api         *APIClient
	feedbackURL string
	log         *logger.Logger
}

var (
	rolesStaff          = entity.StaffRoles
	rolesUserReaders    = []entity.Role{entity.RoleManager, entity.RoleQualityManager}
	rolesManager        = []entity.Role{entity.RoleManager}
	rolesRequestCreator = []entity.Role{entity.RoleOperator, entity.RoleSpecialist, entity.RoleManager}
	rolesSupervisors    = []entity.Role{entity.RoleManager, entity.RoleQualityManager}
	rolesCommentWriters = []entity.Role{entity.RoleSpecialist, entity.RoleManager, entity.RoleQualityManager}
)

// NewApp construye la aplicación Fiber del frontend con plantillas embebidas.
func NewApp(deps Deps) (*fiber.App, error) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("deref", deref)
	engine.AddFunc("today", func() string { return time.Now().Format(entity.DateLayout) })

	s := &Server{api: deps.API, feedbackURL: deps.FeedbackURL, log: log.Component("web")}

	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: s.errorHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	app.Use(recover.New())
	app.Use(withSession(deps.Sessions))

	s.routes(app)
	return app, nil
}

func (s *Server) routes(app *fiber.App) {
	app.Get("/", s.index)
	app.Get("/login", s.loginForm)
	app.Post("/login", s.login)
	app.Get("/logout", s.logout)

	users := app.Group("/users", loginRequired)
	users.Get("/", roleRequired(rolesUserReaders...), s.usersList)
	users.Get("/create", roleRequired(rolesManager...), s.userCreateForm)
	users.Post("/create", roleRequired(rolesManager...), s.userCreate)
	users.Post("/delete/:id", roleRequired(rolesManager...), s.userDelete)

	requests := app.Group("/requests", loginRequired)
	requests.Get("/", roleRequired(rolesStaff...), s.requestsList)
	requests.Get("/search", roleRequired(rolesStaff...), s.requestsSearch)
	requests.Get("/new", roleRequired(rolesRequestCreator...), s.requestCreateForm)
	requests.Post("/new", roleRequired(rolesRequestCreator...), s.requestCreate)
	requests.Get("/:id", roleRequired(rolesStaff...), s.requestDetail)
	requests.Post("/:id/edit", roleRequired(rolesStaff...), s.requestEdit)
	requests.Post("/:id/assign", roleRequired(rolesSupervisors...), s.requestAssign)
	requests.Post("/:id/extend", roleRequired(rolesSupervisors...), s.requestExtend)
	requests.Post("/:id/delete", roleRequired(rolesManager...), s.requestDelete)
	requests.Get("/:id/pdf", roleRequired(rolesStaff...), s.requestPDF)

	comments := app.Group("/comments", loginRequired)
	comments.Get("/", roleRequired(rolesStaff...), s.commentsList)
	comments.Get("/new", roleRequired(rolesCommentWriters...), s.commentCreateForm)
	comments.Post("/new", roleRequired(rolesCommentWriters...), s.commentCreate)

	app.Get("/qr/feedback.png", loginRequired, s.feedbackQR)
	app.Get("/statistics", loginRequired, s.statistics)

	my := app.Group("/my-requests", loginRequired, customerOnly)
	my.Get("/", s.myRequests)
	my.Get("/new", s.myRequestCreateForm)
	my.Post("/new", s.myRequestCreate)
	my.Get("/:id", s.myRequestDetail)
}

// nav qué enlaces del menú ve el rol actual.
type nav struct {
	Staff         bool
	Customer      bool
	Users         bool
	CreateUser    bool
	CreateRequest bool
	CreateComment bool
	Supervisor    bool
	Manager       bool
}

func navFor(role entity.Role) nav {
	return nav{
		Staff:         role.IsStaff(),
		Customer:      role == entity.RoleCustomer,
		Users:         role.In(rolesUserReaders...),
		CreateUser:    role.In(rolesManager...),
		CreateRequest: role.In(rolesRequestCreator...),
		CreateComment: role.In(rolesCommentWriters...),
		Supervisor:    role.In(rolesSupervisors...),
		Manager:       role == entity.RoleManager,
	}
}

// render completa los datos comunes del layout y consume los flashes.
func (s *Server) render(c *fiber.Ctx, name, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	id := currentIdentity(c)
	data["Title"] = title
	data["Role"] = string(id.Role)
	data["LoggedIn"] = id.LoggedIn()
	data["UserID"] = id.UserID
	data["Nav"] = navFor(id.Role)
	data["Flashes"] = popFlashes(c)
	return c.Render(name, data)
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	c.Status(code)
	if code == fiber.StatusNotFound {
		return s.render(c, "errors/404", "Страница не найдена", nil)
	}
	s.log.Error().Err(err).Str("path", c.Path()).Msg("error en página")
	return s.render(c, "errors/500", "Внутренняя ошибка сервера", nil)
}

// pathID id numérico de la ruta; cualquier otra cosa es 404.
func pathID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return int64(id), nil
}

func deref(v any) any {
	switch p := v.(type) {
	case *string:
		if p == nil {
			return ""
		}
		return *p
	case *int64:
		if p == nil {
			return ""
		}
		return *p
	default:
		return v
	}
}
