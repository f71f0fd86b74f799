package forms

import (
	"testing"

	"github.com/onyx-daemon/circle/internal/models"
)

func TestNewContactFormCreateMode(t *testing.T) {
	f := NewContactForm(nil)

	if f.IsEdit() {
		t.Error("form with no source contact reports edit mode")
	}
	if f.ContactID() != 0 {
		t.Errorf("ContactID() = %d, want 0", f.ContactID())
	}
	if f.Emails.Len() != 1 || f.Phones.Len() != 1 {
		t.Errorf("rows = %d emails, %d phones, want 1 each", f.Emails.Len(), f.Phones.Len())
	}

	row, _ := f.Emails.Row(0)
	if row.Input.Value() != "" || row.Type != models.EmailTypeWork {
		t.Errorf("blank email row = %q/%s, want empty WORK", row.Input.Value(), row.Type)
	}

	kind, _ := f.FocusedField()
	if kind != FieldFirstName {
		t.Errorf("initial focus = %v, want first name", kind)
	}
}

func TestNewContactFormSeedsFromContact(t *testing.T) {
	contact := &models.Contact{
		ID:        7,
		FirstName: "Grace",
		LastName:  "Hopper",
		Title:     "Rear Admiral",
		Emails: []models.EmailEntry{
			{Email: "grace@navy.mil", Type: models.EmailTypeWork},
			{Email: "grace@home.example", Type: models.EmailTypePersonal},
		},
		Phones: []models.PhoneEntry{
			{PhoneNumber: "+1 555 0100", Type: models.PhoneTypeHome},
		},
	}

	f := NewContactForm(contact)

	if !f.IsEdit() || f.ContactID() != 7 {
		t.Errorf("edit=%v id=%d, want edit of contact 7", f.IsEdit(), f.ContactID())
	}
	if f.FirstName.Value() != "Grace" || f.LastName.Value() != "Hopper" || f.Title.Value() != "Rear Admiral" {
		t.Errorf("scalars not seeded: %q %q %q", f.FirstName.Value(), f.LastName.Value(), f.Title.Value())
	}
	if f.Emails.Len() != 2 {
		t.Fatalf("email rows = %d, want 2", f.Emails.Len())
	}

	second, _ := f.Emails.Row(1)
	if second.Input.Value() != "grace@home.example" || second.Type != models.EmailTypePersonal {
		t.Errorf("second email row = %q/%s", second.Input.Value(), second.Type)
	}
}

func TestNewContactFormSeedsBlankRowForEmptyLists(t *testing.T) {
	contact := &models.Contact{
		ID:        3,
		FirstName: "Alan",
		LastName:  "Turing",
		Emails:    []models.EmailEntry{},
		Phones:    nil,
	}

	f := NewContactForm(contact)

	if f.Emails.Len() != 1 {
		t.Fatalf("email rows = %d, want exactly 1", f.Emails.Len())
	}
	row, _ := f.Emails.Row(0)
	if row.Input.Value() != "" || row.Type != models.EmailTypeWork {
		t.Errorf("seeded row = %q/%s, want empty WORK", row.Input.Value(), row.Type)
	}
	if f.Phones.Len() != 1 {
		t.Errorf("phone rows = %d, want exactly 1", f.Phones.Len())
	}
}

func TestContactFormPayloadDropsBlankRows(t *testing.T) {
	f := NewContactForm(nil)
	f.FirstName.SetValue("Ada")
	f.LastName.SetValue("Lovelace")

	// The single seeded email row stays blank.
	p := f.Payload()

	if p.FirstName != "Ada" || p.LastName != "Lovelace" {
		t.Errorf("payload scalars = %q %q", p.FirstName, p.LastName)
	}
	if len(p.Emails) != 0 {
		t.Errorf("payload emails = %v, want none", p.Emails)
	}
	if len(p.Phones) != 0 {
		t.Errorf("payload phones = %v, want none", p.Phones)
	}
}

func TestContactFormPayloadKeepsFilledRowsInOrder(t *testing.T) {
	f := NewContactForm(nil)
	f.FirstName.SetValue("Ada")
	f.LastName.SetValue("Lovelace")

	f.Emails.Update(0, func(r *EmailRow) {
		r.Input.SetValue("ada@analytical.engine")
		r.Type = models.EmailTypePersonal
	})
	f.Emails.Append(newEmailRow("  ", models.EmailTypeOther))
	f.Emails.Append(newEmailRow("countess@lovelace.example", models.EmailTypeWork))

	p := f.Payload()

	if len(p.Emails) != 2 {
		t.Fatalf("payload emails = %v, want 2 rows", p.Emails)
	}
	if p.Emails[0].Email != "ada@analytical.engine" || p.Emails[0].Type != models.EmailTypePersonal {
		t.Errorf("first payload email = %+v", p.Emails[0])
	}
	if p.Emails[1].Email != "countess@lovelace.example" {
		t.Errorf("second payload email = %+v", p.Emails[1])
	}
}

func TestContactFormValidateRequiresNames(t *testing.T) {
	f := NewContactForm(nil)

	if f.Validate() {
		t.Error("empty form passed validation")
	}
	if _, ok := f.Errors["firstName"]; !ok {
		t.Error("missing firstName error")
	}
	if _, ok := f.Errors["lastName"]; !ok {
		t.Error("missing lastName error")
	}

	f.FirstName.SetValue("Ada")
	f.LastName.SetValue("   ")
	if f.Validate() {
		t.Error("whitespace last name passed validation")
	}

	f.LastName.SetValue("Lovelace")
	if !f.Validate() {
		t.Errorf("valid form failed validation: %v", f.Errors)
	}
	if len(f.Errors) != 0 {
		t.Errorf("Errors = %v after successful validation", f.Errors)
	}
}

func TestContactFormFieldTraversal(t *testing.T) {
	f := NewContactForm(nil)

	// firstName -> lastName -> title -> email row -> phone row -> submit
	expected := []FieldKind{FieldLastName, FieldTitle, FieldEmailRow, FieldPhoneRow, FieldSubmit}
	for _, want := range expected {
		f.NextField()
		kind, _ := f.FocusedField()
		if kind != want {
			t.Fatalf("focus = %v, want %v", kind, want)
		}
	}

	if !f.OnSubmit() {
		t.Error("OnSubmit() = false at end of traversal")
	}

	// Focus clamps at the submit control.
	f.NextField()
	if !f.OnSubmit() {
		t.Error("focus moved past submit")
	}
}

func TestContactFormAddAndRemoveRowsAtFocus(t *testing.T) {
	f := NewContactForm(nil)

	// Move onto the email row section.
	f.NextField()
	f.NextField()
	f.NextField()
	if kind, _ := f.FocusedField(); kind != FieldEmailRow {
		t.Fatalf("focus = %v, want email row", kind)
	}

	f.AddRowAtFocus()
	if f.Emails.Len() != 2 {
		t.Fatalf("email rows = %d after add, want 2", f.Emails.Len())
	}
	if kind, row := f.FocusedField(); kind != FieldEmailRow || row != 1 {
		t.Errorf("focus after add = %v/%d, want new email row", kind, row)
	}

	f.RemoveRowAtFocus()
	if f.Emails.Len() != 1 {
		t.Fatalf("email rows = %d after remove, want 1", f.Emails.Len())
	}

	// Removing the last remaining row is a no-op.
	f.RemoveRowAtFocus()
	if f.Emails.Len() != 1 {
		t.Errorf("email rows = %d, the last row must survive", f.Emails.Len())
	}
}

func TestContactFormCycleTypeAtFocus(t *testing.T) {
	f := NewContactForm(nil)
	f.NextField()
	f.NextField()
	f.NextField() // email row

	f.CycleTypeAtFocus()
	row, _ := f.Emails.Row(0)
	if row.Type != models.EmailTypePersonal {
		t.Errorf("type after one cycle = %s, want PERSONAL", row.Type)
	}

	// Cycling on a scalar field changes nothing.
	g := NewContactForm(nil)
	g.CycleTypeAtFocus()
	first, _ := g.Emails.Row(0)
	if first.Type != models.EmailTypeWork {
		t.Errorf("scalar-focus cycle mutated email row type: %s", first.Type)
	}
}
