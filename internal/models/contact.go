package models

import (
	"time"
)

// Website identifies the marketing site a submission came from
type Website string

const (
	WebsiteAllinsys    Website = "allinsys"
	WebsiteBloodcasted Website = "bloodcasted"
	WebsitePassB2B     Website = "passb2b"
	WebsiteAbavsp      Website = "abavsp"
)

// Websites is the closed allow-list of origin sites, in display order
var Websites = []Website{WebsiteAllinsys, WebsiteBloodcasted, WebsitePassB2B, WebsiteAbavsp}

// IsValid reports whether w is part of the allow-list
func (w Website) IsValid() bool {
	switch w {
	case WebsiteAllinsys, WebsiteBloodcasted, WebsitePassB2B, WebsiteAbavsp:
		return true
	}
	return false
}

func (w Website) String() string {
	return string(w)
}

// Source records how the contact heard about the business
type Source string

const (
	SourceFeira     Source = "feira"
	SourceInternet  Source = "internet"
	SourceIndicacao Source = "indicacao"
	SourceOutros    Source = "outros"
	SourceWebsites  Source = "websites"
)

// Sources lists every accepted source value
var Sources = []Source{SourceFeira, SourceInternet, SourceIndicacao, SourceOutros, SourceWebsites}

// IsValid reports whether s is a known source
func (s Source) IsValid() bool {
	switch s {
	case SourceFeira, SourceInternet, SourceIndicacao, SourceOutros, SourceWebsites:
		return true
	}
	return false
}

// ContactForm is a validated submission as received from a website
type ContactForm struct {
	FullName     string
	Email        string
	Phone        string
	Objective    string
	Source       Source
	Location     string
	Feedback     string
	BusinessName string
	LinkedIn     string
}

// Contact is a persisted contact form document.
// ID is the document ID and is never written as a field.
type Contact struct {
	ID           string    `firestore:"-"`
	FullName     string    `firestore:"fullName"`
	Email        string    `firestore:"email"`
	Phone        string    `firestore:"phone,omitempty"`
	PhoneKey     string    `firestore:"phoneKey,omitempty"`
	Objective    string    `firestore:"objective"`
	Source       Source    `firestore:"source,omitempty"`
	Location     string    `firestore:"location,omitempty"`
	Feedback     string    `firestore:"feedback,omitempty"`
	BusinessName string    `firestore:"businessName,omitempty"`
	LinkedIn     string    `firestore:"linkedin,omitempty"`
	Website      Website   `firestore:"website"`
	CreatedAt    time.Time `firestore:"createdAt,serverTimestamp"`
}

// NewContact builds the document to persist for a submission
func NewContact(form ContactForm, website Website, phoneKey string) *Contact {
	return &Contact{
		FullName:     form.FullName,
		Email:        form.Email,
		Phone:        form.Phone,
		PhoneKey:     phoneKey,
		Objective:    form.Objective,
		Source:       form.Source,
		Location:     form.Location,
		Feedback:     form.Feedback,
		BusinessName: form.BusinessName,
		LinkedIn:     form.LinkedIn,
		Website:      website,
	}
}
