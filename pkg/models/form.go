package models

// RegistrationForm is the four-field record collected on the register page.
// Values are validated exactly as entered; nothing is trimmed.
type RegistrationForm struct {
	FirstName   string `json:"firstName" validate:"min=1,max=32"`
	LastName    string `json:"lastName" validate:"min=1,max=32"`
	PhoneNumber string `json:"phoneNumber" validate:"usphone"`
	Email       string `json:"email" validate:"rfc5322email"`
}

// IsEmpty reports whether every field is blank, i.e. the form was cleared.
func (f RegistrationForm) IsEmpty() bool {
	return f == RegistrationForm{}
}

// Merge returns a copy of f with every non-empty field of other applied on top.
func (f RegistrationForm) Merge(other RegistrationForm) RegistrationForm {
	if other.FirstName != "" {
		f.FirstName = other.FirstName
	}
	if other.LastName != "" {
		f.LastName = other.LastName
	}
	if other.PhoneNumber != "" {
		f.PhoneNumber = other.PhoneNumber
	}
	if other.Email != "" {
		f.Email = other.Email
	}
	return f
}

// RegistrationPayload is the body POSTed to /register
type RegistrationPayload struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}
