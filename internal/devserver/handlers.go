package devserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arkamedika/billing-console/internal/models"
	"github.com/arkamedika/billing-console/internal/notify"
	"github.com/arkamedika/billing-console/pkg/utils"
)

// Handler serves the stub hospital API.
type Handler struct {
	Store *Store
	Hub   *notify.Hub
}

func NewHandler(store *Store, hub *notify.Hub) *Handler {
	return &Handler{Store: store, Hub: hub}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates and issues the session token. One endpoint resolves
// every role; the role travels back in the response and inside the token.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid request payload",
		})
	}

	role, err := h.Store.Authenticate(req.Username, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"message": "Invalid username or password",
		})
	}

	token, err := utils.GenerateJWTToken(req.Username, role, time.Now().Add(12*time.Hour))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Failed to generate token: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"role":    role,
	})
}

func (h *Handler) ListPatients(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"patients": h.Store.Patients(),
	})
}

func (h *Handler) ListDoctors(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"doctors": h.Store.Doctors(),
	})
}

func patientIDParam(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("patientId"))
}

// LatestPrescription serves the most recent unbilled prescription, or 404
// when the patient has none.
func (h *Handler) LatestPrescription(c echo.Context) error {
	patientID, err := patientIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid patientId",
		})
	}
	prescription, ok := h.Store.UnbilledPrescription(patientID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "No unbilled prescription for this patient",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":      true,
		"prescription": prescription,
	})
}

// LatestReport serves the latest unbilled general report, or 404.
func (h *Handler) LatestReport(c echo.Context) error {
	patientID, err := patientIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid patientId",
		})
	}
	report, ok := h.Store.UnbilledReport(patientID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "No unbilled report for this patient",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
	})
}

// UnbilledScanReports serves every unbilled scan order; an empty list is a
// normal 200, not an error.
func (h *Handler) UnbilledScanReports(c echo.Context) error {
	patientID, err := patientIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid patientId",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"reports": h.Store.UnbilledScans(patientID),
	})
}

// CreateBill accepts the submission, marks linked records billed and
// broadcasts the event so other consoles refresh.
func (h *Handler) CreateBill(c echo.Context) error {
	var sub models.BillSubmission
	if err := c.Bind(&sub); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid request payload",
		})
	}
	if sub.PatientID == 0 || sub.DoctorID == 0 || len(sub.Items) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "patient_id, doctor_id and items are required",
		})
	}

	billID := h.Store.CreateBill(sub)
	if h.Hub != nil {
		h.Hub.Publish(notify.Event{
			Kind:      notify.EventBillCreated,
			PatientID: sub.PatientID,
			BillID:    billID,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Bill created successfully",
		"bill_id": billID,
	})
}
