package service

import "restaurant-layout/internal/layout/models"

// ============================================================
// Form State
// ============================================================

// FormState is the server-side mirror of the edit form.
type FormState struct {
	Label    string `json:"label"`
	Section  string `json:"section"`
	Occupied bool   `json:"occupied"`
	Active   bool   `json:"active"`
}

func (f *FormState) Populate(attrs models.Attributes) {
	f.Label = attrs.Label
	f.Section = attrs.Section
	f.Occupied = attrs.Occupied
	f.Active = true
}

func (f *FormState) Reset() {
	*f = FormState{}
}
