package billing

import (
	"errors"
	"testing"
)

func TestComputeTotal(t *testing.T) {
	items := []LineItem{
		{Label: "Consultation Fee", UnitCost: 300, Quantity: 1, Source: SourceConsultation},
		{Label: "Bandage", UnitCost: 20, Quantity: 3, Source: SourceManual},
	}
	if got := ComputeTotal(items); got != 360 {
		t.Fatalf("ComputeTotal() = %v, want 360", got)
	}
}

func TestComputeTotalIgnoresHeaders(t *testing.T) {
	// A header contributes nothing even with garbage in its fields.
	items := []LineItem{
		{Label: "Prescribed Medicines", UnitCost: 999, Quantity: 9, Source: SourceSectionHeader},
		{Label: "Amoxicillin (500mg)", UnitCost: 10, Quantity: 5, Source: SourcePrescription},
	}
	if got := ComputeTotal(items); got != 50 {
		t.Fatalf("ComputeTotal() = %v, want 50", got)
	}
}

func TestComputeTotalEmpty(t *testing.T) {
	if got := ComputeTotal(nil); got != 0 {
		t.Fatalf("ComputeTotal(nil) = %v, want 0", got)
	}
}

func TestValidateDraftOrdering(t *testing.T) {
	complete := Draft{
		PatientID:      1,
		DoctorID:       2,
		TreatmentLabel: "Consultation - Dr. Agus Pratama",
		Items:          []LineItem{{Label: "Consultation Fee", UnitCost: 300, Quantity: 1, Source: SourceConsultation}},
	}

	tests := []struct {
		name    string
		mutate  func(d *Draft)
		wantErr error
	}{
		{name: "complete draft passes", mutate: func(d *Draft) {}},
		{
			// First check wins even when later ones would also fail.
			name:    "missing patient reported before missing doctor",
			mutate:  func(d *Draft) { d.PatientID = 0; d.DoctorID = 0 },
			wantErr: ErrMissingPatient,
		},
		{
			name:    "missing doctor",
			mutate:  func(d *Draft) { d.DoctorID = 0 },
			wantErr: ErrMissingDoctor,
		},
		{
			name:    "missing treatment",
			mutate:  func(d *Draft) { d.TreatmentLabel = "" },
			wantErr: ErrMissingTreatment,
		},
		{
			name:    "empty item list",
			mutate:  func(d *Draft) { d.Items = nil },
			wantErr: ErrEmptyInvoice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := complete
			d.Items = append([]LineItem(nil), complete.Items...)
			tt.mutate(&d)
			if err := ValidateDraft(d); !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateDraft() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDurationQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"5 days", 5},
		{" 10 days", 10},
		{"2weeks", 2},
		{"as needed", 1},
		{"", 1},
		{"0 days", 1},
	}
	for _, tt := range tests {
		if got := durationQuantity(tt.in); got != tt.want {
			t.Errorf("durationQuantity(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
