package contact

import "time"

// CreateContactRequest represents a contact form submission
type CreateContactRequest struct {
	FullName     string `json:"fullName" binding:"required,notblank,max=100"`
	Email        string `json:"email" binding:"required,email,max=255"`
	Phone        string `json:"phone" binding:"omitempty,max=30"`
	Objective    string `json:"objective" binding:"required,notblank,max=500"`
	Source       string `json:"source" binding:"omitempty,contactsource"`
	Location     string `json:"location" binding:"omitempty,max=100"`
	Feedback     string `json:"feedback" binding:"omitempty,max=500"`
	BusinessName string `json:"businessName" binding:"omitempty,max=100"`
	LinkedIn     string `json:"linkedin" binding:"omitempty,max=255,url"`
	// Only checked when reCAPTCHA is configured
	RecaptchaToken string `json:"recaptchaToken" binding:"omitempty,max=4096"`
}

// ContactResponse represents the response after submitting a contact form
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ContactDTO is the public view of a stored contact
type ContactDTO struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Objective    string    `json:"objective"`
	Source       string    `json:"source,omitempty"`
	Location     string    `json:"location,omitempty"`
	Feedback     string    `json:"feedback,omitempty"`
	BusinessName string    `json:"businessName,omitempty"`
	LinkedIn     string    `json:"linkedin,omitempty"`
	Website      string    `json:"website"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ListContactsQuery holds the query string of the list endpoint
type ListContactsQuery struct {
	Page      *int   `form:"page" binding:"omitempty,min=1"`
	Limit     *int   `form:"limit" binding:"omitempty,min=1,max=100"`
	Website   string `form:"website" binding:"omitempty,website"`
	Source    string `form:"source" binding:"omitempty,contactsource"`
	Search    string `form:"search" binding:"omitempty,max=100"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// PaginationMeta describes the returned page
type PaginationMeta struct {
	TotalItems   int `json:"totalItems"`
	ItemCount    int `json:"itemCount"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
}

// PaginationLinks are navigation URLs; empty when not applicable
type PaginationLinks struct {
	First    string `json:"first"`
	Previous string `json:"previous"`
	Next     string `json:"next"`
	Last     string `json:"last"`
}

// ListContactsResponse is one page of contacts
type ListContactsResponse struct {
	Items []ContactDTO    `json:"items"`
	Meta  PaginationMeta  `json:"meta"`
	Links PaginationLinks `json:"links"`
}
