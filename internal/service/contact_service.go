package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/allinsys/contactforms/internal/logging"
	"github.com/allinsys/contactforms/internal/metrics"
	"github.com/allinsys/contactforms/internal/models"
	"github.com/allinsys/contactforms/internal/repository"
)

// SubmitSuccessMessage is returned to the website after a stored submission
const SubmitSuccessMessage = "Contact submitted successfully"

// SubmitResult confirms a stored submission
type SubmitResult struct {
	Success bool
	Message string
	ID      string
}

const notifyTimeout = 10 * time.Second

type ContactService struct {
	repo        repository.ContactRepository
	phoneRegion string
	metrics     *metrics.Metrics
	logger      *logging.Logger
	notifier    Notifier
	pending     sync.WaitGroup
}

// ContactServiceOption configures optional collaborators
type ContactServiceOption func(*ContactService)

// WithNotifier announces every stored contact through n.
// Delivery runs in the background and never fails the submission.
func WithNotifier(n Notifier) ContactServiceOption {
	return func(s *ContactService) {
		s.notifier = n
	}
}

func NewContactService(repo repository.ContactRepository, phoneRegion string, m *metrics.Metrics, opts ...ContactServiceOption) *ContactService {
	if phoneRegion == "" {
		phoneRegion = DefaultPhoneRegion
	}
	s := &ContactService{
		repo:        repo,
		phoneRegion: phoneRegion,
		metrics:     m,
		logger:      logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit stores a validated form for the given website tag.
// The duplicate check and the insert are separate store calls, so two
// concurrent submissions with the same email can both be stored.
func (s *ContactService) Submit(ctx context.Context, form models.ContactForm, websiteTag string) (*SubmitResult, error) {
	website := models.Website(websiteTag)
	if !website.IsValid() {
		s.metrics.ObserveSubmission("unknown", metrics.OutcomeInvalid)
		return nil, fmt.Errorf("%w: %q", ErrInvalidWebsite, websiteTag)
	}

	phoneKey := PhoneKey(form.Phone, s.phoneRegion)

	if err := s.checkDuplicates(ctx, form); err != nil {
		if errors.Is(err, ErrConflict) {
			s.metrics.ObserveSubmission(website.String(), metrics.OutcomeDuplicate)
		} else {
			s.metrics.ObserveSubmission(website.String(), metrics.OutcomeError)
		}
		return nil, err
	}

	created, err := s.repo.Create(ctx, models.NewContact(form, website, phoneKey))
	if err != nil {
		s.metrics.ObserveSubmission(website.String(), metrics.OutcomeError)
		s.logger.Error("Failed to save contact for %s: %v", website, err)
		return nil, storeError("save contact", err)
	}

	s.metrics.ObserveSubmission(website.String(), metrics.OutcomeCreated)
	s.logger.Info("Contact %s submitted from %s", created.ID, website)
	s.notify(ctx, created)

	return &SubmitResult{
		Success: true,
		Message: SubmitSuccessMessage,
		ID:      created.ID,
	}, nil
}

// checkDuplicates looks up the email first and then, when present, the phone.
// Both lookups compare the stored value exactly as submitted.
func (s *ContactService) checkDuplicates(ctx context.Context, form models.ContactForm) error {
	_, err := s.repo.FindOneByField(ctx, repository.FieldEmail, form.Email)
	if err == nil {
		return &DuplicateFieldError{Field: "email", Value: form.Email}
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Duplicate check by email failed: %v", err)
		return storeError("check email", err)
	}

	phone := strings.TrimSpace(form.Phone)
	if phone == "" {
		return nil
	}

	_, err = s.repo.FindOneByField(ctx, repository.FieldPhone, phone)
	if err == nil {
		return &DuplicateFieldError{Field: "phone", Value: phone}
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Duplicate check by phone failed: %v", err)
		return storeError("check phone", err)
	}
	return nil
}

// List returns one page of contacts. Equality filters run in the store;
// search and date bounds run in memory over the full ordered result.
func (s *ContactService) List(ctx context.Context, params ListParams) (*PaginatedResult[*models.Contact], error) {
	if err := params.Normalize(); err != nil {
		return nil, err
	}

	contacts, err := s.repo.List(ctx, repository.ContactFilter{
		Website: params.Website,
		Source:  params.Source,
	})
	if err != nil {
		s.logger.Error("Failed to list contacts: %v", err)
		return nil, storeError("list contacts", err)
	}

	filtered := FilterContacts(contacts, params)
	return Paginate(filtered, params.Page, params.Limit, params.LinkQuery), nil
}

func (s *ContactService) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: contact %s", ErrNotFound, id)
	}
	if err != nil {
		s.logger.Error("Failed to get contact %s: %v", id, err)
		return nil, storeError("get contact", err)
	}
	return contact, nil
}

// ListByWebsite returns every contact of one website, newest first
func (s *ContactService) ListByWebsite(ctx context.Context, websiteTag string) ([]*models.Contact, error) {
	website := models.Website(websiteTag)
	if !website.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWebsite, websiteTag)
	}

	contacts, err := s.repo.List(ctx, repository.ContactFilter{Website: website})
	if err != nil {
		s.logger.Error("Failed to list contacts for %s: %v", website, err)
		return nil, storeError("list contacts by website", err)
	}
	return contacts, nil
}

// Ping reports whether the document store answers
func (s *ContactService) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return storeError("ping", err)
	}
	return nil
}

func (s *ContactService) notify(ctx context.Context, contact *models.Contact) {
	if s.notifier == nil {
		return
	}

	// The request may finish before delivery does
	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()

		if err := s.notifier.NotifyContact(ctx, contact); err != nil {
			s.metrics.ObserveNotifyFailure()
			s.logger.Warn("Failed to notify about contact %s: %v", contact.ID, err)
		}
	}()
}

// Wait blocks until background notifications have finished
func (s *ContactService) Wait() {
	s.pending.Wait()
}
