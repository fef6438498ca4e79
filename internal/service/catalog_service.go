// Package service contains the application's business logic.
package service

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"devshelf/internal/cache"
	"devshelf/internal/models"
	"devshelf/internal/observability"
	"devshelf/internal/repository"
)

// Pagination bounds for the listing endpoint.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// CatalogService implements the catalog's listing and mutation operations.
type CatalogService struct {
	resourceRepo repository.ResourceRepository
	userRepo     repository.UserRepository
}

// NewCatalogService returns a CatalogService backed by the given repositories.
func NewCatalogService(resourceRepo repository.ResourceRepository, userRepo repository.UserRepository) *CatalogService {
	return &CatalogService{
		resourceRepo: resourceRepo,
		userRepo:     userRepo,
	}
}

// ListInput is the raw parameter set of a listing request, before clamping.
type ListInput struct {
	Tag    string
	Search string
	SortBy string
	Page   int
	Limit  int
}

// ListResult is one catalog page plus its pagination metadata.
type ListResult struct {
	Resources  []*models.Resource `json:"resources"`
	Pagination models.Pagination  `json:"pagination"`
}

// CreateInput carries a create request plus the authenticated external identity.
type CreateInput struct {
	ExternalID   string
	IdentityName string
	Title        string
	Description  string
	ImageURL     string
	Link         string
	Tags         []string
}

// UpdateInput carries an update request plus the authenticated external identity.
type UpdateInput struct {
	ExternalID  string
	ID          string
	Title       string
	Description string
	ImageURL    string
	Link        string
	Tags        []string
}

// ListResources executes the compound filter/sort/pagination query and
// returns the page with metadata computed from the same predicate. Pages are
// cached in Redis keyed by the exact parameter tuple and invalidated by any
// successful mutation.
func (s *CatalogService) ListResources(ctx context.Context, in ListInput) (*ListResult, error) {
	q := repository.ListQuery{
		Tag:    in.Tag,
		Search: strings.TrimSpace(in.Search),
		SortBy: normalizeSort(in.SortBy),
		Page:   in.Page,
		Limit:  in.Limit,
	}
	if q.Tag == "" {
		q.Tag = repository.TagAll
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}

	var result ListResult
	hit := true
	key := cache.CatalogKey(q.Tag, q.SortBy, q.Search, q.Page, q.Limit)
	err := cache.Aside(ctx, key, &result, cache.CatalogTTL, func() error {
		hit = false
		items, total, err := s.resourceRepo.List(ctx, q)
		if err != nil {
			return err
		}
		result = ListResult{
			Resources: items,
			Pagination: models.Pagination{
				Page:  q.Page,
				Limit: q.Limit,
				Total: total,
				Pages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	observability.CatalogCacheHits.WithLabelValues(outcome).Inc()
	if result.Resources == nil {
		result.Resources = []*models.Resource{}
	}
	return &result, nil
}

// UserResources returns every resource owned by the external identity,
// newest first.
func (s *CatalogService) UserResources(ctx context.Context, externalID string) ([]*models.Resource, error) {
	if externalID == "" {
		return nil, models.NewUnauthorizedError("Please sign in to view your resources")
	}
	user, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", externalID)
	}

	var resources []*models.Resource
	key := cache.UserResourcesKey(user.ID)
	err = cache.Aside(ctx, key, &resources, cache.UserResourcesTTL, func() error {
		var fetchErr error
		resources, fetchErr = s.resourceRepo.GetByUserID(ctx, user.ID)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if resources == nil {
		resources = []*models.Resource{}
	}
	return resources, nil
}

// CreateResource validates the input, enforces case-insensitive title
// uniqueness, provisions the owning user on first write, and persists the
// resource.
func (s *CatalogService) CreateResource(ctx context.Context, in CreateInput) (*models.Resource, error) {
	if in.ExternalID == "" {
		return nil, models.NewUnauthorizedError("Please sign in to create a resource")
	}
	if err := validateFields(in.Title, in.Description, in.ImageURL, in.Link, in.Tags); err != nil {
		return nil, err
	}

	existing, err := s.resourceRepo.FindByTitle(ctx, in.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Data with this title already exist!")
	}

	owner, err := s.provisionUser(ctx, in.ExternalID, in.IdentityName)
	if err != nil {
		return nil, err
	}

	resource := &models.Resource{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Link:        in.Link,
		Tag:         models.TagList(in.Tags),
		UserID:      owner.ID,
	}
	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, err
	}

	// Reload with the denormalized owner for the response body.
	return s.resourceRepo.GetByID(ctx, resource.ID)
}

// UpdateResource replaces all mutable fields, including the full tag list.
// Only the owner may update; title collisions against other resources are
// rejected.
func (s *CatalogService) UpdateResource(ctx context.Context, in UpdateInput) (*models.Resource, error) {
	if in.ExternalID == "" {
		return nil, models.NewUnauthorizedError("Please sign in to update your resource")
	}
	if in.ID == "" {
		return nil, models.NewValidationError("Resource id is required")
	}

	user, err := s.userRepo.GetByExternalID(ctx, in.ExternalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", in.ExternalID)
	}

	resource, err := s.resourceRepo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if resource.UserID != user.ID {
		return nil, models.NewForbiddenError("You do not have permission to update this resource")
	}

	if err := validateFields(in.Title, in.Description, in.ImageURL, in.Link, in.Tags); err != nil {
		return nil, err
	}

	if !strings.EqualFold(resource.Title, in.Title) {
		existing, err := s.resourceRepo.FindByTitle(ctx, in.Title)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != resource.ID {
			return nil, models.NewConflictError("Data with this title already exist!")
		}
	}

	resource.Title = in.Title
	resource.Description = in.Description
	resource.ImageURL = in.ImageURL
	resource.Link = in.Link
	resource.Tag = models.TagList(in.Tags)

	if err := s.resourceRepo.Update(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// DeleteResource removes a resource after the same not-found/ownership
// checks as update.
func (s *CatalogService) DeleteResource(ctx context.Context, externalID, id string) error {
	if externalID == "" {
		return models.NewUnauthorizedError("Please sign in to delete your resource")
	}
	if id == "" {
		return models.NewValidationError("Resource id is required")
	}

	user, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewNotFoundError("User", externalID)
	}

	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if resource.UserID != user.ID {
		return models.NewForbiddenError("You do not have permission to delete this resource")
	}

	return s.resourceRepo.Delete(ctx, resource)
}

// provisionUser resolves the owning user row, creating one with a default
// display name on first write (first-write-wins provisioning).
func (s *CatalogService) provisionUser(ctx context.Context, externalID, identityName string) (*models.User, error) {
	user, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{
		ExternalID: externalID,
		UserName:   identityName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func validateFields(title, description, imageURL, link string, tags []string) error {
	if title == "" || description == "" || imageURL == "" || link == "" || len(tags) == 0 {
		return models.NewValidationError("Please fill all details")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLen {
		return models.NewValidationError("Title must be less than 100 characters")
	}
	if utf8.RuneCountInString(description) > models.MaxDescriptionLen {
		return models.NewValidationError("Description must be less than 500 characters")
	}
	if !isAbsoluteURL(imageURL) || !isAbsoluteURL(link) {
		return models.NewValidationError("Please provide valid URLs for imageUrl and link")
	}
	for _, tag := range tags {
		if !models.IsValidTag(tag) {
			return models.NewValidationError("Unknown tag: " + tag)
		}
	}
	return nil
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func normalizeSort(sortBy string) string {
	switch sortBy {
	case repository.SortOldest, repository.SortTitleAsc, repository.SortTitleDesc:
		return sortBy
	default:
		return repository.SortNewest
	}
}
