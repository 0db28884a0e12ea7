package cvs

import (
	"github.com/gofiber/fiber/v3"
)

// RegisterRoutes registers the CV workflow routes on the provided router.
func RegisterRoutes(r fiber.Router, h *Handler) {
	grp := r.Group("/cvs")

	grp.Post("/save", h.HandleSave)
	grp.Post("/extract", h.HandleExtract)
	grp.Get("/:key", h.HandleGet)
}
