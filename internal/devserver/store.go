package devserver

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/arkamedika/billing-console/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type userRecord struct {
	passwordHash []byte
	role         string
}

type prescriptionRecord struct {
	models.Prescription
	billed bool
}

type reportRecord struct {
	models.Report
	billed bool
}

type scanRecord struct {
	models.ScanReport
	billed bool
}

// StoredBill is an accepted submission with its assigned id.
type StoredBill struct {
	ID int
	models.BillSubmission
}

// Store is the stub server's in-memory state: rosters, unbilled clinical
// records and accepted bills. It stands in for the real hospital database
// during local development and integration tests.
type Store struct {
	mu            sync.Mutex
	users         map[string]userRecord
	patients      []models.Patient
	doctors       []models.Doctor
	prescriptions []*prescriptionRecord
	reports       []*reportRecord
	scans         []*scanRecord
	bills         []StoredBill
	nextBillID    int
}

// NewStore seeds the fixtures every fresh stub starts from.
func NewStore() *Store {
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	return &Store{
		users: map[string]userRecord{
			"admin": {passwordHash: adminHash, role: "admin"},
		},
		patients: []models.Patient{
			{ID: 1, Name: "Rina Wati", Phone: "081234567890"},
			{ID: 2, Name: "Budi Santoso", Phone: "081298765432"},
			{ID: 3, Name: "Sari Dewi"},
		},
		doctors: []models.Doctor{
			{ID: 1, Name: "Agus Pratama", Specialization: "General", ConsultationFee: 300},
			{ID: 2, Name: "Maya Lestari", Specialization: "Radiology", ConsultationFee: 450},
		},
		prescriptions: []*prescriptionRecord{
			{Prescription: models.Prescription{
				ID:        11,
				PatientID: 1,
				Medicines: []models.Medicine{
					{Name: "Amoxicillin", Dosage: "500mg", Duration: "5 days"},
					{Name: "Paracetamol", Dosage: "650mg", Duration: "3 days"},
				},
			}},
		},
		reports: []*reportRecord{
			{Report: models.Report{ID: 21, PatientID: 1, Summary: "Routine follow-up"}},
		},
		scans: []*scanRecord{
			{ScanReport: models.ScanReport{ID: 31, PatientID: 2, ScanName: "Chest X-Ray", Cost: 500}},
			{ScanReport: models.ScanReport{ID: 32, PatientID: 2, ScanName: "Abdomen USG", Cost: 750}},
		},
		nextBillID: 1,
	}
}

// Authenticate checks the credentials and returns the user's role.
func (s *Store) Authenticate(username, password string) (string, error) {
	s.mu.Lock()
	user, ok := s.users[username]
	s.mu.Unlock()
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return user.role, nil
}

func (s *Store) Patients() []models.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Patient(nil), s.patients...)
}

func (s *Store) Doctors() []models.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Doctor(nil), s.doctors...)
}

// UnbilledPrescription returns the most recent unbilled prescription for the
// patient, if any.
func (s *Store) UnbilledPrescription(patientID int) (models.Prescription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.prescriptions) - 1; i >= 0; i-- {
		rec := s.prescriptions[i]
		if rec.PatientID == patientID && !rec.billed {
			return rec.Prescription, true
		}
	}
	return models.Prescription{}, false
}

// UnbilledReport returns the latest unbilled general report for the patient.
func (s *Store) UnbilledReport(patientID int) (models.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.reports) - 1; i >= 0; i-- {
		rec := s.reports[i]
		if rec.PatientID == patientID && !rec.billed {
			return rec.Report, true
		}
	}
	return models.Report{}, false
}

// UnbilledScans returns every unbilled scan order for the patient.
func (s *Store) UnbilledScans(patientID int) []models.ScanReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ScanReport{}
	for _, rec := range s.scans {
		if rec.PatientID == patientID && !rec.billed {
			out = append(out, rec.ScanReport)
		}
	}
	return out
}

// CreateBill stores the submission and marks every linked record billed, all
// under one lock so a concurrent lookup never sees a half-billed state.
func (s *Store) CreateBill(sub models.BillSubmission) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextBillID
	s.nextBillID++
	s.bills = append(s.bills, StoredBill{ID: id, BillSubmission: sub})

	for _, rec := range s.prescriptions {
		if rec.ID == sub.PrescriptionID {
			rec.billed = true
		}
	}
	for _, rec := range s.reports {
		if rec.ID == sub.ReportID {
			rec.billed = true
		}
	}
	for _, scanID := range sub.ScanReportIDs {
		for _, rec := range s.scans {
			if rec.ID == scanID {
				rec.billed = true
			}
		}
	}
	return id
}

// Bills returns the accepted submissions, oldest first.
func (s *Store) Bills() []StoredBill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StoredBill(nil), s.bills...)
}
