package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kycdesk/kycdesk/internal/kyc"
)

// RegisterKYCRoutes wires the KYC workflow endpoints. Submission and status
// lookup are available to any authenticated user; review, listing and KPIs
// are restricted to Admins.
func RegisterKYCRoutes(r fiber.Router, h *kyc.Handler, authn, adminOnly fiber.Handler) {
	group := r.Group("/kyc", authn)
	group.Post("/submit", h.Submit)
	group.Get("/status", h.Status)
	group.Patch("/status/:userId", adminOnly, h.Decide)
	group.Get("/submissions", adminOnly, h.List)
	group.Get("/kpis", adminOnly, h.KPIStats)
}
