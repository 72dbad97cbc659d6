package models

// Report is a general clinical report. The billing workflow only needs its
// id, so the server can mark it billed together with the invoice.
type Report struct {
	ID        int    `json:"id"`
	PatientID int    `json:"patient_id"`
	Summary   string `json:"summary,omitempty"`
}
