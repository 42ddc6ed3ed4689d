package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/pkg/qrcode"
)

// feedbackQR pide el PNG a la API; si falla lo genera localmente con la URL configurada.
func (s *Server) feedbackQR(c *fiber.Ctx) error {
	png, err := s.api.FeedbackQR(c.UserContext(), currentIdentity(c).Token)
	if err != nil {
		s.log.Warn().Err(err).Msg("QR de la API no disponible, generación local")
		png, err = qrcode.PNG(s.feedbackURL, qrcode.DefaultSize)
		if err != nil {
			return err
		}
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
