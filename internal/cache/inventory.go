package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%s"
	ProjectKeyPrefix  = "project:%d"
	SimilarKeyPrefix  = "project:%d:similar"
	FlashKeyPrefix    = "flash:%s"
	ProjectsListName  = "projects:list:first"
	HomeName          = "home"
	AboutName         = "about"
	CategoriesName    = "categories"
	TagsName          = "tags"
)

const (
	UserTTL     = 5 * time.Minute
	ProjectTTL  = 30 * time.Minute
	ListTTL     = 1 * time.Minute
	AboutTTL    = 10 * time.Minute
	TaxonomyTTL = 10 * time.Minute
	FlashTTL    = 10 * time.Minute
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ProjectKey(projectID uint) string {
	return fmt.Sprintf(ProjectKeyPrefix, projectID)
}

func SimilarKey(projectID uint) string {
	return fmt.Sprintf(SimilarKeyPrefix, projectID)
}

func FlashKey(id string) string {
	return fmt.Sprintf(FlashKeyPrefix, id)
}

func ProjectsListKey() string {
	return ProjectsListName
}

func HomeKey() string {
	return HomeName
}

func AboutKey() string {
	return AboutName
}

func CategoriesKey() string {
	return CategoriesName
}

func TagsKey() string {
	return TagsName
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateProject drops the cached project, its similar list, and the
// aggregate views that embed project data.
func InvalidateProject(ctx context.Context, projectID uint) {
	Invalidate(ctx, ProjectKey(projectID))
	Invalidate(ctx, SimilarKey(projectID))
	InvalidateProjectsList(ctx)
}

func InvalidateProjectsList(ctx context.Context) {
	Invalidate(ctx, ProjectsListKey())
	Invalidate(ctx, HomeKey())
}

func InvalidateAbout(ctx context.Context) {
	Invalidate(ctx, AboutKey())
}

func InvalidateTaxonomy(ctx context.Context) {
	Invalidate(ctx, CategoriesKey())
	Invalidate(ctx, TagsKey())
}
