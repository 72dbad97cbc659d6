package billing

// SourceTag identifies which enrichment routine (or the user) owns a line
// item. It is the single discriminator for edit permissions and merge
// grouping; there are no per-row boolean flags.
type SourceTag string

const (
	SourceManual        SourceTag = "manual"
	SourcePrescription  SourceTag = "prescription"
	SourceScanCost      SourceTag = "scan_cost"
	SourceConsultation  SourceTag = "consultation"
	SourceSectionHeader SourceTag = "section_header"
)

// LineItem is one billable row of the draft. A SectionHeader row carries
// zero cost and zero quantity and exists only to label the prescription
// group that follows it.
type LineItem struct {
	Label       string    `json:"label"`
	UnitCost    float64   `json:"unit_cost"`
	Quantity    int       `json:"quantity"`
	Source      SourceTag `json:"source"`
	ExternalRef int       `json:"external_ref,omitempty"`
}

// Locked reports whether label and quantity are immutable through the
// editor. Unit cost stays editable on every row, locked or not.
func (it LineItem) Locked() bool {
	return it.Source == SourcePrescription || it.Source == SourceScanCost
}

// Amount is the row's contribution to the grand total.
func (it LineItem) Amount() float64 {
	if it.Source == SourceSectionHeader {
		return 0
	}
	return it.UnitCost * float64(it.Quantity)
}

func (it LineItem) equal(other LineItem) bool {
	return it.Label == other.Label &&
		it.UnitCost == other.UnitCost &&
		it.Quantity == other.Quantity &&
		it.Source == other.Source
}
