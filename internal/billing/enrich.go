package billing

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/arkamedika/billing-console/internal/models"
)

// The enrichment routines each fetch one external source and merge its
// contribution into the draft. They are independent: a failed fetch is
// logged and contributes nothing, and merges for different source tags
// never touch each other's rows, so completion order does not matter.
//
// Every routine captures its triggering key at dispatch time and re-checks
// it against the live draft inside the store lock before merging. A response
// that arrives after the selection moved on is discarded.

const headerLabel = "Prescribed Medicines"

func (e *Engine) dispatchPatientEnrichments(ctx context.Context, patientID int) {
	e.wg.Add(3)
	go func() {
		defer e.wg.Done()
		e.enrichPrescription(ctx, patientID)
	}()
	go func() {
		defer e.wg.Done()
		e.enrichReport(ctx, patientID)
	}()
	go func() {
		defer e.wg.Done()
		e.enrichScanCosts(ctx, patientID)
	}()
}

func (e *Engine) dispatchDoctorEnrichment(ctx context.Context, doctorID int) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.resolveDoctorFee(ctx, doctorID)
	}()
}

// enrichPrescription turns the latest unbilled prescription into one locked
// row per medicine, headed by a single section header. Re-running replaces
// the whole group in place.
func (e *Engine) enrichPrescription(ctx context.Context, patientID int) {
	p, err := e.api.LatestPrescription(ctx, patientID)
	if err != nil {
		logEnrichMiss("prescription", patientID, err)
		return
	}
	if len(p.Medicines) == 0 {
		return
	}

	group := make([]LineItem, 0, len(p.Medicines)+1)
	group = append(group, LineItem{Label: headerLabel, Source: SourceSectionHeader})
	for _, med := range p.Medicines {
		group = append(group, LineItem{
			Label:    fmt.Sprintf("%s (%s)", med.Name, med.Dosage),
			UnitCost: 0, // price is unknown from a prescription; filled in by hand
			Quantity: durationQuantity(med.Duration),
			Source:   SourcePrescription,
		})
	}

	e.store.Update(func(d *Draft) {
		if d.PatientID != patientID {
			return
		}
		d.ReplaceItemsMatching(func(it LineItem) bool {
			return it.Source == SourcePrescription || it.Source == SourceSectionHeader
		}, group)
		d.Linked.PrescriptionID = p.ID
		d.SuggestTreatment("Pharmacy Bill")
	})
}

// enrichReport records the latest unbilled general report's id. No line item
// is generated; the id rides along so the server can mark the report billed.
func (e *Engine) enrichReport(ctx context.Context, patientID int) {
	r, err := e.api.LatestReport(ctx, patientID)
	if err != nil {
		logEnrichMiss("report", patientID, err)
		return
	}
	e.store.Update(func(d *Draft) {
		if d.PatientID != patientID {
			return
		}
		d.Linked.ReportID = r.ID
	})
}

// enrichScanCosts replaces the scan-cost rows with one row per unbilled scan
// order. A full replace, never an append, so re-fetching cannot duplicate.
func (e *Engine) enrichScanCosts(ctx context.Context, patientID int) {
	reports, err := e.api.UnbilledScanReports(ctx, patientID)
	if err != nil {
		logEnrichMiss("scan orders", patientID, err)
		return
	}

	items := make([]LineItem, 0, len(reports))
	ids := make([]int, 0, len(reports))
	for _, r := range reports {
		items = append(items, LineItem{
			Label:       "Scan Cost - " + r.ScanName,
			UnitCost:    r.Cost,
			Quantity:    1,
			Source:      SourceScanCost,
			ExternalRef: r.ID,
		})
		ids = append(ids, r.ID)
	}

	e.store.Update(func(d *Draft) {
		if d.PatientID != patientID {
			return
		}
		d.ReplaceItemsMatching(func(it LineItem) bool {
			return it.Source == SourceScanCost
		}, items)
		d.Linked.ScanReportIDs = ids
		if len(reports) > 0 {
			d.SuggestTreatment("Scan Payment - " + reports[0].ScanName)
		}
	})
}

// resolveDoctorFee looks the doctor up in the roster and merges the
// consultation row. Used when only the id is known.
func (e *Engine) resolveDoctorFee(ctx context.Context, doctorID int) {
	doctors, err := e.api.Doctors(ctx)
	if err != nil {
		logEnrichMiss("doctor roster", doctorID, err)
		return
	}
	for _, doc := range doctors {
		if doc.ID == doctorID {
			e.enrichConsultation(doc)
			return
		}
	}
	log.Printf("consultation enrichment: %v (id %d)", ErrDoctorNotInRoster, doctorID)
}

// enrichConsultation updates the existing consultation row's cost in place,
// or inserts a fresh one at the front of the list.
func (e *Engine) enrichConsultation(doc models.Doctor) {
	e.store.Update(func(d *Draft) {
		if d.DoctorID != doc.ID {
			return
		}
		for i := range d.Items {
			if d.Items[i].Source == SourceConsultation {
				d.Items[i].UnitCost = doc.ConsultationFee
				d.Items[i].ExternalRef = doc.ID
				d.SuggestTreatment("Consultation - Dr. " + doc.Name)
				return
			}
		}
		row := LineItem{
			Label:       "Consultation Fee",
			UnitCost:    doc.ConsultationFee,
			Quantity:    1,
			Source:      SourceConsultation,
			ExternalRef: doc.ID,
		}
		d.Items = append([]LineItem{row}, d.Items...)
		d.SuggestTreatment("Consultation - Dr. " + doc.Name)
	})
}

func logEnrichMiss(source string, key int, err error) {
	log.Printf("%s enrichment skipped for %d: %v", source, key, err)
}

// durationQuantity parses the leading integer of a duration string
// ("5 days" -> 5). Anything unparsable or non-positive defaults to 1.
func durationQuantity(s string) int {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil || n <= 0 {
		return 1
	}
	return n
}
