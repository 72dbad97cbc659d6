package billing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/arkamedika/billing-console/internal/models"
)

// API is the slice of the hospital API the engine consumes. *client.Client
// satisfies it; tests substitute fakes.
type API interface {
	Doctors(ctx context.Context) ([]models.Doctor, error)
	LatestPrescription(ctx context.Context, patientID int) (models.Prescription, error)
	LatestReport(ctx context.Context, patientID int) (models.Report, error)
	UnbilledScanReports(ctx context.Context, patientID int) ([]models.ScanReport, error)
	CreateBill(ctx context.Context, bill models.BillSubmission) error
}

var (
	ErrSelectionLocked   = errors.New("selection was fixed by the caller and cannot change")
	ErrDoctorNotInRoster = errors.New("doctor not found in roster")
)

// Prefill fixes the patient and/or doctor at construction time. A non-zero
// id seeds the draft and disables that picker; enrichment still runs for it.
type Prefill struct {
	PatientID int
	DoctorID  int
}

// Engine composes the draft store, the manual editor and the enrichment
// pipeline into the create-bill workflow.
type Engine struct {
	api    API
	store  *DraftStore
	editor *Editor

	prefill       Prefill
	patientLocked bool
	doctorLocked  bool

	wg         sync.WaitGroup
	submitting atomic.Bool
}

func NewEngine(api API, pre Prefill) *Engine {
	e := &Engine{
		api:           api,
		store:         NewDraftStore(),
		prefill:       pre,
		patientLocked: pre.PatientID != 0,
		doctorLocked:  pre.DoctorID != 0,
	}
	e.editor = NewEditor(e.store)
	return e
}

// Start seeds the draft from the prefill and kicks off enrichment for the
// fixed selections. Safe to call with an empty prefill.
func (e *Engine) Start(ctx context.Context) {
	if e.prefill.PatientID != 0 {
		e.setPatient(e.prefill.PatientID)
		e.dispatchPatientEnrichments(ctx, e.prefill.PatientID)
	}
	if e.prefill.DoctorID != 0 {
		e.setDoctor(e.prefill.DoctorID)
		e.dispatchDoctorEnrichment(ctx, e.prefill.DoctorID)
	}
}

func (e *Engine) Store() *DraftStore { return e.store }
func (e *Engine) Editor() *Editor    { return e.editor }

// Draft returns a read-only snapshot of the current state.
func (e *Engine) Draft() Draft { return e.store.Snapshot() }

// Total is the grand total of the current item list.
func (e *Engine) Total() float64 { return ComputeTotal(e.store.Snapshot().Items) }

func (e *Engine) PatientLocked() bool { return e.patientLocked }
func (e *Engine) DoctorLocked() bool  { return e.doctorLocked }

// SetTreatment records the label the user typed. Unlike a suggestion it
// always wins, including overwriting an earlier suggestion.
func (e *Engine) SetTreatment(label string) {
	e.store.Update(func(d *Draft) { d.TreatmentLabel = label })
}

func (e *Engine) SetPaymentMode(mode PaymentMode) {
	e.store.Update(func(d *Draft) { d.PaymentMode = mode })
}

// SelectPatient switches the draft to a new patient and re-triggers the
// patient-keyed enrichments. Rows and linked refs derived from the previous
// patient are dropped first; manual and consultation rows survive.
func (e *Engine) SelectPatient(ctx context.Context, patientID int) error {
	if e.patientLocked {
		return ErrSelectionLocked
	}
	if patientID == 0 {
		return ErrMissingPatient
	}
	e.setPatient(patientID)
	e.dispatchPatientEnrichments(ctx, patientID)
	return nil
}

func (e *Engine) setPatient(patientID int) {
	e.store.Update(func(d *Draft) {
		if d.PatientID == patientID {
			return
		}
		d.PatientID = patientID
		d.ReplaceItemsMatching(func(it LineItem) bool {
			return it.Source == SourcePrescription ||
				it.Source == SourceSectionHeader ||
				it.Source == SourceScanCost
		}, nil)
		d.Linked = LinkedRecords{}
	})
}

// SelectDoctor switches the draft to a doctor already resolved from the
// roster. The consultation fee is known, so the merge runs synchronously.
func (e *Engine) SelectDoctor(doc models.Doctor) error {
	if e.doctorLocked {
		return ErrSelectionLocked
	}
	e.setDoctor(doc.ID)
	e.enrichConsultation(doc)
	return nil
}

// SelectDoctorByID resolves the doctor from the roster first. Used when the
// caller only holds an id, as with a prefilled selection.
func (e *Engine) SelectDoctorByID(ctx context.Context, doctorID int) error {
	if e.doctorLocked {
		return ErrSelectionLocked
	}
	e.setDoctor(doctorID)
	e.dispatchDoctorEnrichment(ctx, doctorID)
	return nil
}

func (e *Engine) setDoctor(doctorID int) {
	e.store.Update(func(d *Draft) {
		d.DoctorID = doctorID
	})
}

// Refresh re-runs every enrichment for the currently selected keys. Invoked
// when a push notification reports that linked records changed elsewhere.
func (e *Engine) Refresh(ctx context.Context) {
	d := e.store.Snapshot()
	if d.PatientID != 0 {
		e.dispatchPatientEnrichments(ctx, d.PatientID)
	}
	if d.DoctorID != 0 {
		e.dispatchDoctorEnrichment(ctx, d.DoctorID)
	}
}

// Wait blocks until all in-flight enrichment tasks have settled.
func (e *Engine) Wait() { e.wg.Wait() }

// Submit validates the draft and posts it as one atomic request. The draft
// is kept whether or not the call succeeds; only the caller discards it.
// A second Submit while one is running is refused.
func (e *Engine) Submit(ctx context.Context) error {
	if !e.submitting.CompareAndSwap(false, true) {
		return ErrSubmitInFlight
	}
	defer e.submitting.Store(false)

	d := e.store.Snapshot()
	if err := ValidateDraft(d); err != nil {
		return err
	}
	return e.api.CreateBill(ctx, buildSubmission(d))
}

func buildSubmission(d Draft) models.BillSubmission {
	items := make([]models.BillItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, models.BillItem{
			Label:       it.Label,
			UnitCost:    it.UnitCost,
			Quantity:    it.Quantity,
			Source:      string(it.Source),
			ExternalRef: it.ExternalRef,
		})
	}
	return models.BillSubmission{
		PatientID:      d.PatientID,
		DoctorID:       d.DoctorID,
		TreatmentLabel: d.TreatmentLabel,
		PaymentMode:    string(d.PaymentMode),
		Items:          items,
		GrandTotal:     ComputeTotal(d.Items),
		PrescriptionID: d.Linked.PrescriptionID,
		ReportID:       d.Linked.ReportID,
		ScanReportIDs:  d.Linked.ScanReportIDs,
	}
}
