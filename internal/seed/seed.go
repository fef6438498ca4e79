// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"devshelf/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers     int
	NumResources int
	ShouldClean  bool
}

// Seeder populates the catalog with sample users and resources.
type Seeder struct {
	db   *gorm.DB
	opts Options
	r    *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		opts: opts,
		r:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded rows. Resources go first because of the owner
// foreign key.
func (s *Seeder) ClearAll() error {
	if err := s.db.Where("1 = 1").Delete(&models.Resource{}).Error; err != nil {
		return fmt.Errorf("failed to clear resources: %w", err)
	}
	if err := s.db.Where("1 = 1").Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	return nil
}

// Run creates the configured number of users and resources. Titles are
// uniquified with a numeric suffix so the title unique index never trips.
func (s *Seeder) Run() error {
	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		user := &models.User{
			ExternalID: "seed_" + gofakeit.UUID(),
			UserName:   gofakeit.Username(),
		}
		if err := s.db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return fmt.Errorf("at least one user is required to own resources")
	}

	for i := 0; i < s.opts.NumResources; i++ {
		owner := users[s.r.Intn(len(users))]
		resource := s.buildResource(i, owner)
		if err := s.db.Create(resource).Error; err != nil {
			return fmt.Errorf("failed to create resource: %w", err)
		}
	}
	return nil
}

func (s *Seeder) buildResource(n int, owner *models.User) *models.Resource {
	tags := s.pickTags()

	// Spread creation times over the past year so sort orders are visible.
	daysBack := s.r.Intn(365)
	minsBack := s.r.Intn(24 * 60)
	createdAt := time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(minsBack)*time.Minute)

	return &models.Resource{
		Title:       fmt.Sprintf("%s %s #%d", gofakeit.HackerAdjective(), gofakeit.HackerNoun(), n),
		Description: gofakeit.Sentence(12),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/600/400", gofakeit.UUID()),
		Link:        gofakeit.URL(),
		Tag:         models.TagList(tags),
		UserID:      owner.ID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// pickTags draws one to three distinct tags from the vocabulary.
func (s *Seeder) pickTags() []string {
	count := 1 + s.r.Intn(3)
	perm := s.r.Perm(len(models.ResourceTags))
	tags := make([]string, 0, count)
	for _, idx := range perm[:count] {
		tags = append(tags, models.ResourceTags[idx])
	}
	return tags
}
