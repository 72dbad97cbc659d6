package models

type ScanReport struct {
	ID        int     `json:"id"`
	PatientID int     `json:"patient_id"`
	ScanName  string  `json:"scan_name"`
	Cost      float64 `json:"cost"`
}
