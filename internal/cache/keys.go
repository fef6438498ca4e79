package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	CatalogKeyPrefix       = "catalog:%s:%s:%s:%d:%d"
	UserResourcesKeyPrefix = "user-resources:%s"
	ResourceKeyPrefix      = "resource:%s"
)

const (
	CatalogTTL       = 2 * time.Minute
	UserResourcesTTL = 1 * time.Minute
	ResourceTTL      = 10 * time.Minute
)

// CatalogKey identifies one catalog page by its full query tuple, so a
// cached page is only ever served for the exact parameters that produced it.
func CatalogKey(tag, sortBy, search string, page, limit int) string {
	return fmt.Sprintf(CatalogKeyPrefix, tag, sortBy, search, page, limit)
}

func UserResourcesKey(userID string) string {
	return fmt.Sprintf(UserResourcesKeyPrefix, userID)
}

func ResourceKey(id string) string {
	return fmt.Sprintf(ResourceKeyPrefix, id)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateCatalog drops every cached catalog page. Mutations call this
// rather than patching pages in place: the mutated resource's position under
// an arbitrary sort/filter is not cheaply computable.
func InvalidateCatalog(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "catalog:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateUserResources(ctx context.Context, userID string) {
	Invalidate(ctx, UserResourcesKey(userID))
}

func InvalidateResource(ctx context.Context, id string) {
	Invalidate(ctx, ResourceKey(id))
}
