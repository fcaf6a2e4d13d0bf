package service

import (
	"context"

	"echodrop/internal/cache"
	"echodrop/internal/models"
	"echodrop/internal/observability"
	"echodrop/internal/repository"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// Feed refresh triggers, used as metric labels.
const (
	TriggerInitial  = "initial"
	TriggerManual   = "manual"
	TriggerRealtime = "realtime"
	TriggerPaging   = "paging"
)

type FeedService struct {
	postRepo repository.PostRepository
}

type ListFeedInput struct {
	Limit    int
	Offset   int
	ViewerID string
	// Trigger records why the feed was fetched. Defaults to manual.
	Trigger string
}

func NewFeedService(postRepo repository.PostRepository) *FeedService {
	return &FeedService{postRepo: postRepo}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultFeedLimit
	}
	if limit > maxFeedLimit {
		return maxFeedLimit
	}
	return limit
}

// ListFeed returns the global feed, newest posts first. The anonymous
// first page is served cache-aside; every viewer-scoped or paged read
// goes to the database because its projections or window differ.
func (s *FeedService) ListFeed(ctx context.Context, in ListFeedInput) ([]*models.Post, error) {
	trigger := in.Trigger
	if trigger == "" {
		trigger = TriggerManual
	}
	observability.FeedRefreshesTotal.WithLabelValues(trigger).Inc()

	limit := clampLimit(in.Limit)
	fetch := func(ctx context.Context) ([]*models.Post, error) {
		return s.postRepo.List(ctx, limit, in.Offset, in.ViewerID)
	}

	var posts []*models.Post
	var err error
	if in.ViewerID == "" && in.Offset == 0 && limit == defaultFeedLimit {
		posts, err = cache.Aside(ctx, cache.FeedKey, cache.FeedTTL, fetch)
	} else {
		posts, err = fetch(ctx)
	}
	if err != nil {
		return nil, models.NewBackendError(err)
	}
	return posts, nil
}

// ListUserPosts returns one user's posts, newest first.
func (s *FeedService) ListUserPosts(ctx context.Context, userID string, limit, offset int, viewerID string) ([]*models.Post, error) {
	posts, err := s.postRepo.GetByUserID(ctx, userID, clampLimit(limit), offset, viewerID)
	if err != nil {
		return nil, models.NewBackendError(err)
	}
	return posts, nil
}

// ListBookmarked returns the viewer's saved posts, most recently saved
// first.
func (s *FeedService) ListBookmarked(ctx context.Context, viewerID string, limit, offset int) ([]*models.Post, error) {
	if viewerID == "" {
		return nil, models.NewNotAuthenticatedError("sign in to view bookmarks")
	}
	posts, err := s.postRepo.GetBookmarked(ctx, viewerID, clampLimit(limit), offset)
	if err != nil {
		return nil, models.NewBackendError(err)
	}
	return posts, nil
}
