package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/pkg/logger"
	"github.com/jhoicas/climate-service/pkg/qrcode"
)

// QRHandler QR con el enlace a la encuesta de satisfacción.
type QRHandler struct {
	png []byte
}

// NewQRHandler genera el PNG una sola vez; la URL es fija por configuración.
func NewQRHandler(feedbackURL string, log *logger.Logger) (*QRHandler, error) {
	png, err := qrcode.PNG(feedbackURL, qrcode.DefaultSize)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("url", feedbackURL).Int("bytes", len(png)).Msg("QR de encuesta generado")
	return &QRHandler{png: png}, nil
}

// Feedback godoc
// @Summary      QR de la encuesta
// @Tags         qr
// @Produce      image/png
// @Success      200  {file}  binary
// @Router       /qr/feedback [get]
func (h *QRHandler) Feedback(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.Send(h.png)
}
