package repository

import (
	"context"
	"errors"
	"sort"
	"strings"

	"devshelf/internal/cache"
	"devshelf/internal/models"
	"devshelf/internal/observability"

	"gorm.io/gorm"
)

// Sort orders accepted by the listing query.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortTitleAsc  = "title-asc"
	SortTitleDesc = "title-desc"
)

// TagAll is the sentinel meaning "no tag filter".
const TagAll = "all"

// ListQuery is the compound filter/sort/pagination parameter set for a
// catalog page. Page and Limit arrive already clamped by the caller.
type ListQuery struct {
	Tag    string
	Search string
	SortBy string
	Page   int
	Limit  int
}

// ResourceRepository defines persistence operations for catalog resources.
type ResourceRepository interface {
	// List returns one page of resources plus the total count of the
	// matched set. Count and page are always derived from the same
	// filter predicate.
	List(ctx context.Context, q ListQuery) ([]*models.Resource, int64, error)
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	GetByUserID(ctx context.Context, userID string) ([]*models.Resource, error)
	// FindByTitle performs a case-insensitive title lookup and returns
	// (nil, nil) when no resource carries the title.
	FindByTitle(ctx context.Context, title string) (*models.Resource, error)
	Create(ctx context.Context, resource *models.Resource) error
	Update(ctx context.Context, resource *models.Resource) error
	Delete(ctx context.Context, resource *models.Resource) error
}

type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository returns a new ResourceRepository implementation.
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

// likeEscaper neutralizes LIKE metacharacters so a search term always
// matches its literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// matched builds a fresh query carrying the search predicate. Every caller
// gets its own *gorm.DB so count and page fetch cannot contaminate each other.
func (r *resourceRepository) matched(ctx context.Context, q ListQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Resource{})
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		db = db.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like)
	}
	return db
}

func (r *resourceRepository) List(ctx context.Context, q ListQuery) ([]*models.Resource, int64, error) {
	defer observability.TrackQuery("list", "resources")()

	tagFiltered := q.Tag != "" && q.Tag != TagAll
	titleSorted := q.SortBy == SortTitleAsc || q.SortBy == SortTitleDesc

	// Fast path: tag filter and title collation are the only parts of the
	// query the store cannot express natively (tags live in a JSON column,
	// and title sort must ignore case regardless of column collation).
	// Without them, pagination happens in SQL against the same predicate
	// as the count.
	if !tagFiltered && !titleSorted {
		var total int64
		if err := r.matched(ctx, q).Count(&total).Error; err != nil {
			return nil, 0, models.NewInternalError(err)
		}

		order := "created_at DESC"
		if q.SortBy == SortOldest {
			order = "created_at ASC"
		}

		var items []*models.Resource
		err := r.matched(ctx, q).
			Preload("User").
			Order(order).
			Limit(q.Limit).
			Offset((q.Page - 1) * q.Limit).
			Find(&items).Error
		if err != nil {
			return nil, 0, models.NewInternalError(err)
		}
		return items, total, nil
	}

	// Slow path: pull the whole matched set, then filter and sort in
	// application code before paginating, so the page and the total stay
	// consistent with each other.
	var all []*models.Resource
	err := r.matched(ctx, q).
		Preload("User").
		Order("created_at DESC").
		Find(&all).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	if tagFiltered {
		filtered := all[:0]
		for _, res := range all {
			if res.Tag.Contains(q.Tag) {
				filtered = append(filtered, res)
			}
		}
		all = filtered
	}

	switch q.SortBy {
	case SortTitleAsc:
		sort.SliceStable(all, func(i, j int) bool {
			return strings.ToLower(all[i].Title) < strings.ToLower(all[j].Title)
		})
	case SortTitleDesc:
		sort.SliceStable(all, func(i, j int) bool {
			return strings.ToLower(all[i].Title) > strings.ToLower(all[j].Title)
		})
	case SortOldest:
		// base order is newest-first; reverse in place
		for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
			all[i], all[j] = all[j], all[i]
		}
	}

	total := int64(len(all))
	start := (q.Page - 1) * q.Limit
	if start >= len(all) {
		return []*models.Resource{}, total, nil
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	var resource models.Resource
	err := cache.Aside(ctx, cache.ResourceKey(id), &resource, cache.ResourceTTL, func() error {
		err := r.db.WithContext(ctx).Preload("User").First(&resource, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Resource", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *resourceRepository) GetByUserID(ctx context.Context, userID string) ([]*models.Resource, error) {
	var resources []*models.Resource
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&resources).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return resources, nil
}

func (r *resourceRepository) FindByTitle(ctx context.Context, title string) (*models.Resource, error) {
	var resource models.Resource
	err := r.db.WithContext(ctx).
		Where("LOWER(title) = ?", strings.ToLower(title)).
		First(&resource).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &resource, nil
}

func (r *resourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	if err := r.db.WithContext(ctx).Create(resource).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("Data with this title already exist!")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCatalog(ctx)
	cache.InvalidateUserResources(ctx, resource.UserID)
	return nil
}

func (r *resourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	if err := r.db.WithContext(ctx).Save(resource).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("Data with this title already exist!")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateResource(ctx, resource.ID)
	cache.InvalidateCatalog(ctx)
	cache.InvalidateUserResources(ctx, resource.UserID)
	return nil
}

func (r *resourceRepository) Delete(ctx context.Context, resource *models.Resource) error {
	if err := r.db.WithContext(ctx).Delete(&models.Resource{}, "id = ?", resource.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateResource(ctx, resource.ID)
	cache.InvalidateCatalog(ctx)
	cache.InvalidateUserResources(ctx, resource.UserID)
	return nil
}
