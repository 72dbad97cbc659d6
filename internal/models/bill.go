package models

// BillItem is one row of a submitted invoice as it travels on the wire.
type BillItem struct {
	Label       string  `json:"label"`
	UnitCost    float64 `json:"unit_cost"`
	Quantity    int     `json:"quantity"`
	Source      string  `json:"source"`
	ExternalRef int     `json:"external_ref,omitempty"`
}

// BillSubmission is the create-bill request body. The linked record ids let
// the server mark the prescription, report and scan orders as billed in the
// same transaction that stores the invoice.
type BillSubmission struct {
	PatientID      int        `json:"patient_id"`
	DoctorID       int        `json:"doctor_id"`
	TreatmentLabel string     `json:"treatment"`
	PaymentMode    string     `json:"payment_mode"`
	Items          []BillItem `json:"items"`
	GrandTotal     float64    `json:"grand_total"`
	PrescriptionID int        `json:"prescription_id,omitempty"`
	ReportID       int        `json:"report_id,omitempty"`
	ScanReportIDs  []int      `json:"scan_report_ids,omitempty"`
}
