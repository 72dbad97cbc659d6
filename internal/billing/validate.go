package billing

import "errors"

// Sentinel errors for the pre-submission checks, in the order they run.
var (
	ErrMissingPatient   = errors.New("no patient selected")
	ErrMissingDoctor    = errors.New("no doctor selected")
	ErrMissingTreatment = errors.New("treatment description is empty")
	ErrEmptyInvoice     = errors.New("invoice has no line items")
	ErrSubmitInFlight   = errors.New("a submission is already in progress")
)

// ComputeTotal sums unit cost times quantity over every row. Section header
// rows contribute nothing regardless of their stored fields.
func ComputeTotal(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Amount()
	}
	return total
}

// ValidateDraft runs the submission checks in order and stops at the first
// failure: patient, then doctor, then treatment, then a non-empty item list.
func ValidateDraft(d Draft) error {
	if d.PatientID == 0 {
		return ErrMissingPatient
	}
	if d.DoctorID == 0 {
		return ErrMissingDoctor
	}
	if d.TreatmentLabel == "" {
		return ErrMissingTreatment
	}
	if len(d.Items) == 0 {
		return ErrEmptyInvoice
	}
	return nil
}
