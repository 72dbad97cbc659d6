package devserver

import (
	"github.com/labstack/echo/v4"

	"github.com/arkamedika/billing-console/internal/notify"
)

// Register wires the stub API onto the Echo instance.
func Register(e *echo.Echo, h *Handler, hub *notify.Hub) {
	api := e.Group("/api")

	api.POST("/login", h.Login) // no JWT

	api.GET("/patients", h.ListPatients, JWTMiddleware())
	api.GET("/doctors", h.ListDoctors, JWTMiddleware())
	api.GET("/prescription/:patientId", h.LatestPrescription, JWTMiddleware())
	api.GET("/report/:patientId", h.LatestReport, JWTMiddleware())
	api.GET("/unbilled-scan-reports/:patientId", h.UnbilledScanReports, JWTMiddleware())
	api.POST("/create-bill", h.CreateBill, JWTMiddleware())

	if hub != nil {
		e.GET("/ws", notify.ServeWS(hub))
	}
}
