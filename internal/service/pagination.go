package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/allinsys/contactforms/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

const dateLayout = "2006-01-02"

// ListParams holds the page window and optional filters of a listing.
// Zero Page and Limit select the defaults.
type ListParams struct {
	Page      int
	Limit     int
	Website   models.Website
	Source    models.Source
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

// PaginationMeta describes the page window of a PaginatedResult
type PaginationMeta struct {
	TotalItems   int
	ItemCount    int
	ItemsPerPage int
	TotalPages   int
	CurrentPage  int
}

// PaginationLinks holds query strings for neighbouring pages; empty when not applicable
type PaginationLinks struct {
	First    string
	Previous string
	Next     string
	Last     string
}

// PaginatedResult is one page of an ordered sequence
type PaginatedResult[T any] struct {
	Items []T
	Meta  PaginationMeta
	Links PaginationLinks
}

// Normalize applies defaults and checks the page window and filter values
func (p *ListParams) Normalize() error {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Page < 1 {
		return invalidInput("page must be greater than or equal to 1")
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return invalidInput("limit must be between 1 and %d", MaxLimit)
	}
	if p.Website != "" && !p.Website.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidWebsite, p.Website)
	}
	if p.Source != "" && !p.Source.IsValid() {
		return invalidInput("unknown source %q", p.Source)
	}
	if p.StartDate != nil && p.EndDate != nil && p.StartDate.After(*p.EndDate) {
		return invalidInput("startDate must not be after endDate")
	}
	p.Search = strings.TrimSpace(p.Search)
	return nil
}

// LinkQuery encodes the page window and the active equality/search filters.
// Date bounds are not carried over.
func (p ListParams) LinkQuery(page int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "page=%d&limit=%d", page, p.Limit)
	if p.Website != "" {
		b.WriteString("&website=" + url.QueryEscape(string(p.Website)))
	}
	if p.Source != "" {
		b.WriteString("&source=" + url.QueryEscape(string(p.Source)))
	}
	if p.Search != "" {
		b.WriteString("&search=" + url.QueryEscape(p.Search))
	}
	return b.String()
}

// ParseDateBound parses an RFC 3339 timestamp or a YYYY-MM-DD date.
// A date-only upper bound covers the whole day.
func ParseDateBound(value string, upper bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, invalidInput("invalid date %q", value)
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// FilterContacts applies the in-memory filters (search and date bounds) keeping order
func FilterContacts(contacts []*models.Contact, p ListParams) []*models.Contact {
	term := strings.ToLower(p.Search)
	filtered := make([]*models.Contact, 0, len(contacts))
	for _, c := range contacts {
		if term != "" && !matchesSearch(c, term) {
			continue
		}
		if p.StartDate != nil && c.CreatedAt.Before(*p.StartDate) {
			continue
		}
		if p.EndDate != nil && c.CreatedAt.After(*p.EndDate) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

func matchesSearch(c *models.Contact, term string) bool {
	return strings.Contains(strings.ToLower(c.FullName), term) ||
		strings.Contains(strings.ToLower(c.Email), term) ||
		strings.Contains(strings.ToLower(c.BusinessName), term)
}

// Paginate slices items into the requested page and builds navigation links.
// page and limit must already be normalized.
func Paginate[T any](items []T, page, limit int, linkQuery func(page int) string) *PaginatedResult[T] {
	totalItems := len(items)
	totalPages := 0
	if totalItems > 0 {
		totalPages = (totalItems + limit - 1) / limit
	}

	start := totalItems
	if page-1 < totalPages {
		start = (page - 1) * limit
	}
	end := start + limit
	if end > totalItems {
		end = totalItems
	}

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])

	result := &PaginatedResult[T]{
		Items: pageItems,
		Meta: PaginationMeta{
			TotalItems:   totalItems,
			ItemCount:    len(pageItems),
			ItemsPerPage: limit,
			TotalPages:   totalPages,
			CurrentPage:  page,
		},
	}

	if page > 1 {
		result.Links.First = linkQuery(1)
		result.Links.Previous = linkQuery(page - 1)
	}
	if page < totalPages {
		result.Links.Next = linkQuery(page + 1)
		result.Links.Last = linkQuery(totalPages)
	}
	return result
}
