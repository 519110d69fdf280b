package view

import (
	"context"

	"barogreen/internal/moderation"
)

// CompanyCreator registers companies
type CompanyCreator interface {
	AddCompany(ctx context.Context, in moderation.CompanyInput) (moderation.Company, error)
}

// FormField describes one input of the add-company form
type FormField struct {
	Name        string
	Label       string
	Placeholder string
}

// CompanyFormFields lists the add-company inputs in display order
var CompanyFormFields = []FormField{
	{Name: "registrationNumber", Label: "사업자 등록번호", Placeholder: "예: 123-45-67890"},
	{Name: "name", Label: "업체명", Placeholder: "업체명 입력"},
	{Name: "owner", Label: "대표자 이름", Placeholder: "대표자 이름 입력"},
	{Name: "phone", Label: "전화번호", Placeholder: "예: 010-1234-5678"},
	{Name: "area", Label: "담당 지역", Placeholder: "담당 지역 입력"},
}

// CompanyForm is the add-company input buffer
type CompanyForm struct {
	Open  bool
	Input moderation.CompanyInput
}

// Set stores the value of a named input. Unknown names are ignored.
func (f *CompanyForm) Set(name, value string) {
	switch name {
	case "registrationNumber":
		f.Input.RegistrationNumber = value
	case "name":
		f.Input.Name = value
	case "owner":
		f.Input.Owner = value
	case "phone":
		f.Input.Phone = value
	case "area":
		f.Input.Area = value
	}
}

// Value returns the buffered value of a named input
func (f *CompanyForm) Value(name string) string {
	switch name {
	case "registrationNumber":
		return f.Input.RegistrationNumber
	case "name":
		return f.Input.Name
	case "owner":
		return f.Input.Owner
	case "phone":
		return f.Input.Phone
	case "area":
		return f.Input.Area
	}
	return ""
}

// Cancel closes the form and clears its buffer
func (f *CompanyForm) Cancel() {
	*f = CompanyForm{}
}

// Submit registers the buffered company. On success the form is cleared
// and closed. On failure the entered values are kept and the form stays
// open.
func (f *CompanyForm) Submit(ctx context.Context, store CompanyCreator) (moderation.Company, error) {
	company, err := store.AddCompany(ctx, f.Input)
	if err != nil {
		f.Open = true
		return moderation.Company{}, err
	}
	f.Cancel()
	return company, nil
}
