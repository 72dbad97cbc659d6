package models

// Medicine is one prescribed line inside a prescription. Duration is free
// text as entered by the doctor ("5 days", "2 weeks", ...).
type Medicine struct {
	Name     string `json:"name"`
	Dosage   string `json:"dosage"`
	Duration string `json:"duration"`
}

type Prescription struct {
	ID        int        `json:"id"`
	PatientID int        `json:"patient_id"`
	Medicines []Medicine `json:"medicines"`
}
