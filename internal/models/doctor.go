package models

type Doctor struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Specialization  string  `json:"specialization,omitempty"`
	ConsultationFee float64 `json:"consultation_fee"`
}
