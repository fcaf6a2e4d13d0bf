package service

import (
	"context"
	"errors"

	"echodrop/internal/models"
	"echodrop/internal/repository"

	"gorm.io/gorm"
)

// InteractionService toggles reactions and bookmarks. Both follow the
// same shape: acting again with the same input undoes the previous
// action.
type InteractionService struct {
	reactionRepo repository.ReactionRepository
	bookmarkRepo repository.BookmarkRepository
	postRepo     repository.PostRepository
}

func NewInteractionService(
	reactionRepo repository.ReactionRepository,
	bookmarkRepo repository.BookmarkRepository,
	postRepo repository.PostRepository,
) *InteractionService {
	return &InteractionService{
		reactionRepo: reactionRepo,
		bookmarkRepo: bookmarkRepo,
		postRepo:     postRepo,
	}
}

func (s *InteractionService) checkPost(ctx context.Context, postID, userID string) error {
	if userID == "" {
		return models.NewNotAuthenticatedError("sign in to interact with posts")
	}
	if postID == "" {
		return models.NewValidationError("Post ID is required")
	}
	_, err := s.postRepo.GetByID(ctx, postID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return models.NewBackendError(err)
	}
	return nil
}

// ToggleReaction sets, replaces, or clears the user's reaction.
// Tapping the active reaction clears it; any other type replaces it.
// Returns the reaction now active, "" when cleared.
func (s *InteractionService) ToggleReaction(ctx context.Context, postID, userID string, reactionType models.ReactionType) (models.ReactionType, error) {
	if !reactionType.Valid() {
		return "", models.NewValidationError("Unknown reaction type")
	}
	if err := s.checkPost(ctx, postID, userID); err != nil {
		return "", err
	}

	existing, err := s.reactionRepo.Get(ctx, postID, userID)
	if err != nil {
		return "", models.NewBackendError(err)
	}

	if existing != nil && existing.Type == reactionType {
		if err := s.reactionRepo.Remove(ctx, postID, userID); err != nil {
			return "", models.NewBackendError(err)
		}
		return "", nil
	}

	if err := s.reactionRepo.Set(ctx, postID, userID, reactionType); err != nil {
		return "", models.NewBackendError(err)
	}
	return reactionType, nil
}

// ToggleBookmark flips the viewer's bookmark on a post. Returns whether
// the post is bookmarked after the call.
func (s *InteractionService) ToggleBookmark(ctx context.Context, postID, userID string) (bool, error) {
	if err := s.checkPost(ctx, postID, userID); err != nil {
		return false, err
	}

	exists, err := s.bookmarkRepo.Exists(ctx, postID, userID)
	if err != nil {
		return false, models.NewBackendError(err)
	}

	if exists {
		if err := s.bookmarkRepo.Remove(ctx, postID, userID); err != nil {
			return false, models.NewBackendError(err)
		}
		return false, nil
	}

	if err := s.bookmarkRepo.Add(ctx, postID, userID); err != nil {
		return false, models.NewBackendError(err)
	}
	return true, nil
}
