package web

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/jhoicas/climate-service/internal/domain/entity"
)

const (
	sessionCookie = "climate_session"

	keyToken  = "token"
	keyRole   = "role"
	keyUserID = "user_id"
	keyFlash  = "flash"

	localSession  = "web_session"
	localIdentity = "web_identity"
)

// Categorías de flash (clases de alerta de Bootstrap).
const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashWarning = "warning"
	flashDanger  = "danger"
)

// Flash mensaje de un solo uso mostrado en la siguiente página.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Identity usuario de la sesión; rol e id vienen de GET /auth/me.
type Identity struct {
	Token  string
	Role   entity.Role
	UserID int64
}

// LoggedIn true con token y rol presentes.
func (i Identity) LoggedIn() bool {
	return i.Token != "" && i.Role != ""
}

// NewSessionStore store de sesiones del servidor. storage nil = memoria del proceso.
func NewSessionStore(storage fiber.Storage, ttl time.Duration, secure bool) *session.Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return session.New(session.Config{
		Storage:        storage,
		Expiration:     ttl,
		KeyLookup:      "cookie:" + sessionCookie,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		KeyGenerator:   uuid.NewString,
	})
}

// withSession carga la sesión y la identidad en Locals y guarda la sesión al terminar el handler.
func withSession(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		c.Locals(localSession, sess)
		c.Locals(localIdentity, readIdentity(sess))
		// Los errores se resuelven aquí: la página de error también consume flashes.
		err = c.Next()
		if err != nil {
			err = c.App().Config().ErrorHandler(c, err)
		}
		serr := sess.Save()
		c.Locals(localSession, nil)
		if err != nil {
			return err
		}
		return serr
	}
}

func readIdentity(sess *session.Session) Identity {
	var id Identity
	id.Token, _ = sess.Get(keyToken).(string)
	if role, ok := sess.Get(keyRole).(string); ok {
		id.Role = entity.Role(role)
	}
	id.UserID, _ = sess.Get(keyUserID).(int64)
	return id
}

func currentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(localSession).(*session.Session)
	return sess
}

func currentIdentity(c *fiber.Ctx) Identity {
	id, _ := c.Locals(localIdentity).(Identity)
	return id
}

// signIn guarda en sesión el token y la identidad verificada por la API.
func signIn(c *fiber.Ctx, id Identity) error {
	sess := currentSession(c)
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(keyToken, id.Token)
	sess.Set(keyRole, string(id.Role))
	sess.Set(keyUserID, id.UserID)
	c.Locals(localIdentity, id)
	return nil
}

// signOut borra toda la sesión y emite un id nuevo; los flashes posteriores sobreviven.
func signOut(c *fiber.Ctx) error {
	sess := currentSession(c)
	if err := sess.Reset(); err != nil {
		return err
	}
	c.Locals(localIdentity, Identity{})
	return nil
}

func addFlash(c *fiber.Ctx, category, message string) {
	sess := currentSession(c)
	if sess == nil {
		return
	}
	flashes := peekFlashes(sess)
	flashes = append(flashes, Flash{Category: category, Message: message})
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	sess.Set(keyFlash, string(raw))
}

func peekFlashes(sess *session.Session) []Flash {
	raw, _ := sess.Get(keyFlash).(string)
	if raw == "" {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal([]byte(raw), &flashes); err != nil {
		return nil
	}
	return flashes
}

// popFlashes devuelve los flashes pendientes y los elimina de la sesión.
func popFlashes(c *fiber.Ctx) []Flash {
	sess := currentSession(c)
	if sess == nil {
		return nil
	}
	flashes := peekFlashes(sess)
	if flashes != nil {
		sess.Delete(keyFlash)
	}
	return flashes
}
