package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/arkamedika/billing-console/internal/models"
)

// ErrNotFound reports that the server has no matching record. Enrichment
// treats it as "no contribution from this source", not a failure.
var ErrNotFound = errors.New("record not found")

// APIError is a non-2xx response; Message is the server's own text and is
// shown to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client talks JSON to the hospital API. All calls carry the session token.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		session: session,
	}
}

func (c *Client) Session() *Session { return c.session }

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	Role    string `json:"role"`
}

// Login performs the single identity-resolution call and returns a ready
// session. Role dispatch happens server-side; there is exactly one endpoint.
func Login(ctx context.Context, baseURL, username, password string) (*Session, error) {
	c := &Client{baseURL: baseURL, http: &http.Client{}}
	var resp loginResponse
	if err := c.post(ctx, "/api/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &Session{Token: resp.Token, Role: resp.Role, Username: username}, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.session != nil {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			apiErr.Message = envelope.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// notFoundAs maps a 404 onto sentinel so callers can branch with errors.Is.
func notFoundAs(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}

func (c *Client) Patients(ctx context.Context) ([]models.Patient, error) {
	var resp struct {
		Success  bool             `json:"success"`
		Patients []models.Patient `json:"patients"`
	}
	if err := c.get(ctx, "/api/patients", &resp); err != nil {
		return nil, err
	}
	return resp.Patients, nil
}

func (c *Client) Doctors(ctx context.Context) ([]models.Doctor, error) {
	var resp struct {
		Success bool            `json:"success"`
		Doctors []models.Doctor `json:"doctors"`
	}
	if err := c.get(ctx, "/api/doctors", &resp); err != nil {
		return nil, err
	}
	return resp.Doctors, nil
}

// LatestPrescription returns the most recent unbilled prescription for the
// patient, or ErrNotFound when none exists.
func (c *Client) LatestPrescription(ctx context.Context, patientID int) (models.Prescription, error) {
	var resp struct {
		Success      bool                 `json:"success"`
		Prescription *models.Prescription `json:"prescription"`
	}
	if err := c.get(ctx, fmt.Sprintf("/api/prescription/%d", patientID), &resp); err != nil {
		return models.Prescription{}, notFoundAs(err)
	}
	if !resp.Success || resp.Prescription == nil {
		return models.Prescription{}, ErrNotFound
	}
	return *resp.Prescription, nil
}

// LatestReport returns the latest unbilled general report for the patient,
// or ErrNotFound when none exists.
func (c *Client) LatestReport(ctx context.Context, patientID int) (models.Report, error) {
	var resp struct {
		Success bool           `json:"success"`
		Report  *models.Report `json:"report"`
	}
	if err := c.get(ctx, fmt.Sprintf("/api/report/%d", patientID), &resp); err != nil {
		return models.Report{}, notFoundAs(err)
	}
	if !resp.Success || resp.Report == nil {
		return models.Report{}, ErrNotFound
	}
	return *resp.Report, nil
}

// UnbilledScanReports returns every unbilled scan order for the patient.
// An empty slice is a valid answer, not ErrNotFound.
func (c *Client) UnbilledScanReports(ctx context.Context, patientID int) ([]models.ScanReport, error) {
	var resp struct {
		Success bool                `json:"success"`
		Reports []models.ScanReport `json:"reports"`
	}
	if err := c.get(ctx, fmt.Sprintf("/api/unbilled-scan-reports/%d", patientID), &resp); err != nil {
		return nil, notFoundAs(err)
	}
	return resp.Reports, nil
}

// CreateBill submits the finished draft as one atomic request.
func (c *Client) CreateBill(ctx context.Context, bill models.BillSubmission) error {
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
		BillID  int    `json:"bill_id,omitempty"`
	}
	return c.post(ctx, "/api/create-bill", bill, &resp)
}
