package models

// User is the authenticated account as returned by the auth service.
type User struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func (u User) FullName() string {
	return Contact{FirstName: u.FirstName, LastName: u.LastName}.FullName()
}

func (u User) Initials() string {
	return initialsOf(u.FirstName, u.LastName)
}
