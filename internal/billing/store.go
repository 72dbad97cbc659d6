package billing

import "sync"

// PaymentMode is how the patient settles the invoice.
type PaymentMode string

const (
	PayCash PaymentMode = "cash"
	PayCard PaymentMode = "card"
	PayUPI  PaymentMode = "upi"
)

// LinkedRecords collects the ids of the source records this invoice covers,
// so the server can mark them billed when the invoice lands.
type LinkedRecords struct {
	PrescriptionID int
	ReportID       int
	ScanReportIDs  []int
}

// Draft is the invoice-in-progress. PatientID and DoctorID are zero until a
// selection happens; Items is in display order.
type Draft struct {
	PatientID      int
	DoctorID       int
	TreatmentLabel string
	PaymentMode    PaymentMode
	Items          []LineItem
	Linked         LinkedRecords
}

// ReplaceItemsMatching removes every item the predicate matches and splices
// the replacements in at the position of the first removed item, or at the
// end when nothing matched. Running it twice with the same replacements is a
// no-op, which is what makes re-enrichment idempotent.
func (d *Draft) ReplaceItemsMatching(match func(LineItem) bool, repl []LineItem) {
	at := -1
	kept := make([]LineItem, 0, len(d.Items))
	for _, it := range d.Items {
		if match(it) {
			if at == -1 {
				at = len(kept)
			}
			continue
		}
		kept = append(kept, it)
	}
	if at == -1 {
		at = len(kept)
	}
	next := make([]LineItem, 0, len(kept)+len(repl))
	next = append(next, kept[:at]...)
	next = append(next, repl...)
	next = append(next, kept[at:]...)
	d.Items = next
}

// AppendUnique appends the item unless an identical row (label, unit cost,
// quantity, source) is already present. Reports whether it appended.
func (d *Draft) AppendUnique(it LineItem) bool {
	for _, existing := range d.Items {
		if existing.equal(it) {
			return false
		}
	}
	d.Items = append(d.Items, it)
	return true
}

// SuggestTreatment sets the treatment label only while it is still empty.
// First write wins; a label typed by the user is never overwritten.
func (d *Draft) SuggestTreatment(label string) {
	if d.TreatmentLabel == "" {
		d.TreatmentLabel = label
	}
}

// DraftStore owns the draft. Every mutation runs under the lock as a
// function of the current state, so enrichments completing in any order
// cannot clobber each other with stale copies.
type DraftStore struct {
	mu    sync.Mutex
	draft Draft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{draft: Draft{PaymentMode: PayCash}}
}

// Update applies mutate to the live draft under the lock.
func (s *DraftStore) Update(mutate func(d *Draft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.draft)
}

func (s *DraftStore) update(mutate func(d *Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mutate(&s.draft)
}

// Snapshot returns a copy of the draft safe to read outside the lock.
func (s *DraftStore) Snapshot() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.draft
	out.Items = append([]LineItem(nil), s.draft.Items...)
	out.Linked.ScanReportIDs = append([]int(nil), s.draft.Linked.ScanReportIDs...)
	return out
}
