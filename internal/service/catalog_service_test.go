package service

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"devshelf/internal/models"
	"devshelf/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResourceRepo is an in-memory ResourceRepository for service tests.
type stubResourceRepo struct {
	resources []*models.Resource
	listErr   error
	nextID    int
}

func (s *stubResourceRepo) List(_ context.Context, q repository.ListQuery) ([]*models.Resource, int64, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	total := int64(len(s.resources))
	start := (q.Page - 1) * q.Limit
	if start >= len(s.resources) {
		return []*models.Resource{}, total, nil
	}
	end := start + q.Limit
	if end > len(s.resources) {
		end = len(s.resources)
	}
	return s.resources[start:end], total, nil
}

func (s *stubResourceRepo) GetByID(_ context.Context, id string) (*models.Resource, error) {
	for _, r := range s.resources {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, models.NewNotFoundError("Resource", id)
}

func (s *stubResourceRepo) GetByUserID(_ context.Context, userID string) ([]*models.Resource, error) {
	var out []*models.Resource
	for _, r := range s.resources {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubResourceRepo) FindByTitle(_ context.Context, title string) (*models.Resource, error) {
	for _, r := range s.resources {
		if strings.EqualFold(r.Title, title) {
			return r, nil
		}
	}
	return nil, nil
}

func (s *stubResourceRepo) Create(_ context.Context, resource *models.Resource) error {
	s.nextID++
	if resource.ID == "" {
		resource.ID = "res-" + strconv.Itoa(s.nextID)
	}
	s.resources = append(s.resources, resource)
	return nil
}

func (s *stubResourceRepo) Update(_ context.Context, resource *models.Resource) error {
	for i, r := range s.resources {
		if r.ID == resource.ID {
			s.resources[i] = resource
			return nil
		}
	}
	return models.NewNotFoundError("Resource", resource.ID)
}

func (s *stubResourceRepo) Delete(_ context.Context, resource *models.Resource) error {
	kept := s.resources[:0]
	for _, r := range s.resources {
		if r.ID != resource.ID {
			kept = append(kept, r)
		}
	}
	s.resources = kept
	return nil
}

// stubUserRepo is an in-memory UserRepository for service tests.
type stubUserRepo struct {
	users []*models.User
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.NewNotFoundError("User", id)
}

func (s *stubUserRepo) GetByExternalID(_ context.Context, externalID string) (*models.User, error) {
	for _, u := range s.users {
		if u.ExternalID == externalID {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "user-" + strconv.Itoa(len(s.users)+1)
	}
	if user.UserName == "" {
		user.UserName = models.DefaultUserName
	}
	s.users = append(s.users, user)
	return nil
}

func newTestService() (*CatalogService, *stubResourceRepo, *stubUserRepo) {
	resources := &stubResourceRepo{}
	users := &stubUserRepo{}
	return NewCatalogService(resources, users), resources, users
}

func validCreateInput() CreateInput {
	return CreateInput{
		ExternalID:   "ext_1",
		IdentityName: "Ada",
		Title:        "Component Gallery",
		Description:  "A gallery of accessible components",
		ImageURL:     "https://example.com/shot.png",
		Link:         "https://example.com",
		Tags:         []string{"Components", "Accessibility"},
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateResourceProvisionsUser(t *testing.T) {
	t.Parallel()
	svc, resources, users := newTestService()

	created, err := svc.CreateResource(context.Background(), validCreateInput())
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Component Gallery", created.Title)

	require.Len(t, users.users, 1)
	assert.Equal(t, "ext_1", users.users[0].ExternalID)
	assert.Equal(t, "Ada", users.users[0].UserName)
	require.Len(t, resources.resources, 1)
	assert.Equal(t, users.users[0].ID, resources.resources[0].UserID)
}

func TestCreateResourceDefaultsDisplayName(t *testing.T) {
	t.Parallel()
	svc, _, users := newTestService()

	in := validCreateInput()
	in.IdentityName = ""
	_, err := svc.CreateResource(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, users.users, 1)
	assert.Equal(t, models.DefaultUserName, users.users[0].UserName)
}

func TestCreateResourceRequiresIdentity(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	in := validCreateInput()
	in.ExternalID = ""
	_, err := svc.CreateResource(context.Background(), in)
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func TestCreateResourceValidation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing title", func(in *CreateInput) { in.Title = "" }},
		{"missing description", func(in *CreateInput) { in.Description = "" }},
		{"missing image url", func(in *CreateInput) { in.ImageURL = "" }},
		{"missing link", func(in *CreateInput) { in.Link = "" }},
		{"no tags", func(in *CreateInput) { in.Tags = nil }},
		{"title too long", func(in *CreateInput) { in.Title = strings.Repeat("a", models.MaxTitleLen+1) }},
		{"description too long", func(in *CreateInput) { in.Description = strings.Repeat("a", models.MaxDescriptionLen+1) }},
		{"relative link", func(in *CreateInput) { in.Link = "/just/a/path" }},
		{"unknown tag", func(in *CreateInput) { in.Tags = []string{"NotATag"} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput()
			tc.mutate(&in)
			_, err := svc.CreateResource(context.Background(), in)
			assertAppErrorCode(t, err, models.CodeValidation)
		})
	}
}

func TestCreateResourceLengthLimitsCountRunes(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	// A multibyte title at exactly the limit is valid even though its byte
	// length is double the character count.
	in := validCreateInput()
	in.Title = strings.Repeat("é", models.MaxTitleLen)
	_, err := svc.CreateResource(context.Background(), in)
	require.NoError(t, err)

	in = validCreateInput()
	in.Title = strings.Repeat("é", models.MaxTitleLen+1)
	_, err = svc.CreateResource(context.Background(), in)
	assertAppErrorCode(t, err, models.CodeValidation)

	in = validCreateInput()
	in.Title = "Accented Description"
	in.Description = strings.Repeat("ü", models.MaxDescriptionLen)
	_, err = svc.CreateResource(context.Background(), in)
	require.NoError(t, err)
}

func TestCreateResourceDuplicateTitleConflicts(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	_, err := svc.CreateResource(context.Background(), validCreateInput())
	require.NoError(t, err)

	in := validCreateInput()
	in.Title = "COMPONENT gallery"
	_, err = svc.CreateResource(context.Background(), in)
	assertAppErrorCode(t, err, models.CodeConflict)
	appErr := err.(*models.AppError)
	assert.Equal(t, "Data with this title already exist!", appErr.Message)
}

func TestUpdateResourceReplacesAllFields(t *testing.T) {
	t.Parallel()
	svc, resources, _ := newTestService()

	created, err := svc.CreateResource(context.Background(), validCreateInput())
	require.NoError(t, err)

	updated, err := svc.UpdateResource(context.Background(), UpdateInput{
		ExternalID:  "ext_1",
		ID:          created.ID,
		Title:       "Component Gallery v2",
		Description: "Now with more components",
		ImageURL:    "https://example.com/v2.png",
		Link:        "https://example.com/v2",
		Tags:        []string{"Components"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Component Gallery v2", updated.Title)
	assert.Equal(t, models.TagList{"Components"}, updated.Tag)

	stored, err := resources.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Now with more components", stored.Description)
}

func TestUpdateResourceForbiddenForNonOwner(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	created, err := svc.CreateResource(context.Background(), validCreateInput())
	require.NoError(t, err)

	other := validCreateInput()
	other.ExternalID = "ext_2"
	other.Title = "Other Person Resource"
	_, err = svc.CreateResource(context.Background(), other)
	require.NoError(t, err)

	_, err = svc.UpdateResource(context.Background(), UpdateInput{
		ExternalID:  "ext_2",
		ID:          created.ID,
		Title:       "Hijacked",
		Description: "nope",
		ImageURL:    "https://example.com/x.png",
		Link:        "https://example.com/x",
		Tags:        []string{"Components"},
	})
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestUpdateResourceTitleCollisionWithOtherResource(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	first, err := svc.CreateResource(context.Background(), validCreateInput())
	require.NoError(t, err)

	second := validCreateInput()
	second.Title = "Another Resource"
	_, err = svc.CreateResource(context.Background(), second)
	require.NoError(t, err)

	// Renaming the first onto the second's title must conflict.
	_, err = svc.UpdateResource(context.Background(), UpdateInput{
		ExternalID:  "ext_1",
		ID:          first.ID,
		Title:       "another resource",
		Description: first.Description,
		ImageURL:    first.ImageURL,
		Link:        first.Link,
		Tags:        []string{"Components"},
	})
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestUpdateResourceKeepingOwnTitleIsAllowed(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	created, err := svc.CreateResource(context.Background(), validCreateInput())
	require.NoError(t, err)

	// Re-submitting the same title (different case) must not self-conflict.
	_, err = svc.UpdateResource(context.Background(), UpdateInput{
		ExternalID:  "ext_1",
		ID:          created.ID,
		Title:       "component GALLERY",
		Description: created.Description,
		ImageURL:    created.ImageURL,
		Link:        created.Link,
		Tags:        []string{"Components"},
	})
	require.NoError(t, err)
}

func TestUpdateResourceUnknownUser(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	created, err := svc.CreateResource(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = svc.UpdateResource(context.Background(), UpdateInput{
		ExternalID:  "ext_never_seen",
		ID:          created.ID,
		Title:       "whatever",
		Description: "whatever",
		ImageURL:    "https://example.com/x.png",
		Link:        "https://example.com/x",
		Tags:        []string{"Components"},
	})
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestDeleteResource(t *testing.T) {
	t.Parallel()
	svc, resources, _ := newTestService()

	created, err := svc.CreateResource(context.Background(), validCreateInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteResource(context.Background(), "ext_1", created.ID))
	assert.Empty(t, resources.resources)

	err = svc.DeleteResource(context.Background(), "ext_1", created.ID)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestDeleteResourceForbiddenForNonOwner(t *testing.T) {
	t.Parallel()
	svc, resources, _ := newTestService()

	created, err := svc.CreateResource(context.Background(), validCreateInput())
	require.NoError(t, err)

	other := validCreateInput()
	other.ExternalID = "ext_2"
	other.Title = "Second"
	_, err = svc.CreateResource(context.Background(), other)
	require.NoError(t, err)

	err = svc.DeleteResource(context.Background(), "ext_2", created.ID)
	assertAppErrorCode(t, err, models.CodeForbidden)
	assert.Len(t, resources.resources, 2)
}

func TestListResourcesClampsParameters(t *testing.T) {
	t.Parallel()
	svc, resources, _ := newTestService()

	for i := 0; i < 3; i++ {
		resources.resources = append(resources.resources, &models.Resource{
			ID:    "r-" + strconv.Itoa(i),
			Title: "Resource " + strconv.Itoa(i),
		})
	}

	result, err := svc.ListResources(context.Background(), ListInput{Page: -5, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, DefaultPageLimit, result.Pagination.Limit)
	assert.Equal(t, int64(3), result.Pagination.Total)
	assert.Equal(t, 1, result.Pagination.Pages)

	result, err = svc.ListResources(context.Background(), ListInput{Page: 1, Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageLimit, result.Pagination.Limit)
}

func TestListResourcesPagesIsCeiling(t *testing.T) {
	t.Parallel()
	svc, resources, _ := newTestService()

	for i := 0; i < 7; i++ {
		resources.resources = append(resources.resources, &models.Resource{
			ID:    "r-" + strconv.Itoa(i),
			Title: "Resource " + strconv.Itoa(i),
		})
	}

	result, err := svc.ListResources(context.Background(), ListInput{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Pagination.Total)
	assert.Equal(t, 3, result.Pagination.Pages)
}

func TestUserResourcesUnknownUser(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	_, err := svc.UserResources(context.Background(), "ext_missing")
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestUserResourcesReturnsOwnOnly(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()

	_, err := svc.CreateResource(context.Background(), validCreateInput())
	require.NoError(t, err)

	other := validCreateInput()
	other.ExternalID = "ext_2"
	other.Title = "Someone Else"
	_, err = svc.CreateResource(context.Background(), other)
	require.NoError(t, err)

	mine, err := svc.UserResources(context.Background(), "ext_1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Component Gallery", mine[0].Title)
}
