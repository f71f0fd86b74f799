package models

import (
	"strings"
	"unicode"
)

// EmailType tags an email entry with its purpose. The set is closed;
// the server rejects anything outside it.
type EmailType string

const (
	EmailTypeWork     EmailType = "WORK"
	EmailTypePersonal EmailType = "PERSONAL"
	EmailTypeOther    EmailType = "OTHER"
)

// PhoneType tags a phone entry with its purpose.
type PhoneType string

const (
	PhoneTypeWork     PhoneType = "WORK"
	PhoneTypeHome     PhoneType = "HOME"
	PhoneTypePersonal PhoneType = "PERSONAL"
	PhoneTypeOther    PhoneType = "OTHER"
)

// DefaultEmailType and DefaultPhoneType are what a freshly added entry
// row starts with.
const (
	DefaultEmailType = EmailTypeWork
	DefaultPhoneType = PhoneTypeWork
)

// EmailTypes lists the valid email types in display order.
var EmailTypes = []EmailType{EmailTypeWork, EmailTypePersonal, EmailTypeOther}

// PhoneTypes lists the valid phone types in display order.
var PhoneTypes = []PhoneType{PhoneTypeWork, PhoneTypeHome, PhoneTypePersonal, PhoneTypeOther}

// Next returns the type following t in display order, wrapping around.
func (t EmailType) Next() EmailType {
	for i, et := range EmailTypes {
		if et == t {
			return EmailTypes[(i+1)%len(EmailTypes)]
		}
	}
	return DefaultEmailType
}

// Next returns the type following t in display order, wrapping around.
func (t PhoneType) Next() PhoneType {
	for i, pt := range PhoneTypes {
		if pt == t {
			return PhoneTypes[(i+1)%len(PhoneTypes)]
		}
	}
	return DefaultPhoneType
}

type EmailEntry struct {
	Email string    `json:"email"`
	Type  EmailType `json:"type"`
}

type PhoneEntry struct {
	PhoneNumber string    `json:"phoneNumber"`
	Type        PhoneType `json:"type"`
}

// Contact is a person record owned by the remote collection service.
// The client never assigns or mutates ID; its copy is rebuilt on every
// fetch. Timestamps are kept as the server sends them, for display only.
type Contact struct {
	ID        int64        `json:"id"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Title     string       `json:"title,omitempty"`
	Emails    []EmailEntry `json:"emails"`
	Phones    []PhoneEntry `json:"phones"`
	CreatedAt string       `json:"createdAt,omitempty"`
	UpdatedAt string       `json:"updatedAt,omitempty"`
}

func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Initials returns the uppercased first letters of the first and last
// name, or the empty string when either name is empty.
func (c Contact) Initials() string {
	return initialsOf(c.FirstName, c.LastName)
}

func initialsOf(first, last string) string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if first == "" || last == "" {
		return ""
	}

	fr := []rune(first)
	lr := []rune(last)
	return string(unicode.ToUpper(fr[0])) + string(unicode.ToUpper(lr[0]))
}

// ContactPayload is what create and update operations send. Edits
// replace the full email and phone lists; there is no partial update.
type ContactPayload struct {
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Title     string       `json:"title"`
	Emails    []EmailEntry `json:"emails"`
	Phones    []PhoneEntry `json:"phones"`
}

// Sanitized returns a copy of the payload with scalar fields trimmed
// and every entry row whose primary value is blank after trimming
// removed. The order of surviving rows is preserved, and applying it
// twice yields the same result as once.
func (p ContactPayload) Sanitized() ContactPayload {
	out := ContactPayload{
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Title:     strings.TrimSpace(p.Title),
		Emails:    []EmailEntry{},
		Phones:    []PhoneEntry{},
	}

	for _, e := range p.Emails {
		email := strings.TrimSpace(e.Email)
		if email == "" {
			continue
		}
		out.Emails = append(out.Emails, EmailEntry{Email: email, Type: e.Type})
	}

	for _, ph := range p.Phones {
		number := strings.TrimSpace(ph.PhoneNumber)
		if number == "" {
			continue
		}
		out.Phones = append(out.Phones, PhoneEntry{PhoneNumber: number, Type: ph.Type})
	}

	return out
}
