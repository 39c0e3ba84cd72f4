package mapper

import (
	"github.com/allinsys/contactforms/internal/api/dto/v1/contact"
	"github.com/allinsys/contactforms/internal/models"
	"github.com/allinsys/contactforms/internal/service"
)

// CreateRequestToForm converts a sanitized, validated CreateContactRequest to a ContactForm
func CreateRequestToForm(req *contact.CreateContactRequest) models.ContactForm {
	return models.ContactForm{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Objective:    req.Objective,
		Source:       models.Source(req.Source),
		Location:     req.Location,
		Feedback:     req.Feedback,
		BusinessName: req.BusinessName,
		LinkedIn:     req.LinkedIn,
	}
}

// SubmitResultToResponse converts the intake result to its response DTO
func SubmitResultToResponse(r *service.SubmitResult) *contact.ContactResponse {
	if r == nil {
		return nil
	}

	return &contact.ContactResponse{
		Success: r.Success,
		Message: r.Message,
		ID:      r.ID,
	}
}

// ContactToDTO converts a stored Contact to its public DTO
func ContactToDTO(c *models.Contact) *contact.ContactDTO {
	if c == nil {
		return nil
	}

	return &contact.ContactDTO{
		ID:           c.ID,
		FullName:     c.FullName,
		Email:        c.Email,
		Phone:        c.Phone,
		Objective:    c.Objective,
		Source:       string(c.Source),
		Location:     c.Location,
		Feedback:     c.Feedback,
		BusinessName: c.BusinessName,
		LinkedIn:     c.LinkedIn,
		Website:      string(c.Website),
		CreatedAt:    c.CreatedAt,
	}
}

// ContactsToDTOs converts a slice of contacts; the result is never nil
func ContactsToDTOs(contacts []*models.Contact) []contact.ContactDTO {
	result := make([]contact.ContactDTO, 0, len(contacts))
	for _, c := range contacts {
		if dto := ContactToDTO(c); dto != nil {
			result = append(result, *dto)
		}
	}
	return result
}

// ListQueryToParams converts the list query string to service parameters
func ListQueryToParams(q *contact.ListContactsQuery) (service.ListParams, error) {
	params := service.ListParams{
		Website: models.Website(q.Website),
		Source:  models.Source(q.Source),
		Search:  q.Search,
	}
	if q.Page != nil {
		params.Page = *q.Page
	}
	if q.Limit != nil {
		params.Limit = *q.Limit
	}

	var err error
	if params.StartDate, err = service.ParseDateBound(q.StartDate, false); err != nil {
		return params, err
	}
	if params.EndDate, err = service.ParseDateBound(q.EndDate, true); err != nil {
		return params, err
	}
	return params, nil
}

// PageToListResponse converts a page of contacts; link query strings are prefixed with path
func PageToListResponse(page *service.PaginatedResult[*models.Contact], path string) *contact.ListContactsResponse {
	if page == nil {
		return nil
	}

	return &contact.ListContactsResponse{
		Items: ContactsToDTOs(page.Items),
		Meta: contact.PaginationMeta{
			TotalItems:   page.Meta.TotalItems,
			ItemCount:    page.Meta.ItemCount,
			ItemsPerPage: page.Meta.ItemsPerPage,
			TotalPages:   page.Meta.TotalPages,
			CurrentPage:  page.Meta.CurrentPage,
		},
		Links: contact.PaginationLinks{
			First:    link(path, page.Links.First),
			Previous: link(path, page.Links.Previous),
			Next:     link(path, page.Links.Next),
			Last:     link(path, page.Links.Last),
		},
	}
}

func link(path, query string) string {
	if query == "" {
		return ""
	}
	return path + "?" + query
}
