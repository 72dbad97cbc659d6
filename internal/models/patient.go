package models

type Patient struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}
