package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kycdesk/kycdesk/internal/user"
)

// RegisterUserRoutes wires user management endpoints. Every route requires a
// valid token; create and list additionally require the Admin role. The fixed
// paths are registered before the :id parameter so they are not shadowed.
func RegisterUserRoutes(r fiber.Router, h *user.Handler, authn, adminOnly fiber.Handler) {
	group := r.Group("/users", authn)
	group.Post("/create", adminOnly, h.Create)
	group.Get("/list", adminOnly, h.List)
	group.Get("/:id", h.Get)
	group.Patch("/:id", h.Update)
	group.Delete("/:id", h.Delete)
}
