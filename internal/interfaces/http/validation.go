package http

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/domain/entity"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return entity.Role(strings.TrimSpace(fl.Field().String())).Valid()
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(entity.DateLayout, strings.TrimSpace(fl.Field().String()))
		return err == nil
	})
	return v
}

// bind parsea el cuerpo JSON y lo valida. Si devuelve false la respuesta 400 ya fue escrita.
func bind(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		_ = invalidBody(c)
		return false
	}
	if err := validate.Struct(out); err != nil {
		_ = validationError(c, describeValidation(err))
		return false
	}
	return true
}

func describeValidation(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" es requerido")
		case "date":
			msgs = append(msgs, fe.Field()+" debe tener formato AAAA-MM-DD")
		case "role":
			msgs = append(msgs, fmt.Sprintf("%s: rol desconocido %q", fe.Field(), fe.Value()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s excede la longitud máxima (%s)", fe.Field(), fe.Param()))
		case "gt":
			msgs = append(msgs, fe.Field()+" debe ser positivo")
		default:
			msgs = append(msgs, fmt.Sprintf("%s no cumple %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
