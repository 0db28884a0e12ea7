package emails

import (
	"github.com/gofiber/fiber/v3"
)

// RegisterRoutes registers email generation routes on the provided router.
func RegisterRoutes(r fiber.Router, h *Handler) {
	grp := r.Group("/emails")

	grp.Post("/generate", h.HandleGenerate)
}
