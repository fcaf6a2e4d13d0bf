package service

import (
	"context"
	"errors"
	"strings"

	"echodrop/internal/audio"
	"echodrop/internal/models"
	"echodrop/internal/repository"
	"echodrop/internal/storage"
	"echodrop/internal/upload"

	"gorm.io/gorm"
)

// Uploader moves validated audio files into blob storage.
type Uploader interface {
	Upload(ctx context.Context, kind upload.Kind, userID, path string) (string, error)
}

type PostService struct {
	postRepo repository.PostRepository
	uploader Uploader
	store    storage.BlobStore
}

type CreatePostInput struct {
	UserID string
	Clip   audio.Clip
}

type DeletePostInput struct {
	UserID string
	PostID string
}

func NewPostService(postRepo repository.PostRepository, uploader Uploader, store storage.BlobStore) *PostService {
	return &PostService{
		postRepo: postRepo,
		uploader: uploader,
		store:    store,
	}
}

// CreatePost uploads a finished recording and publishes it as a post.
// The stored duration is the clip's whole-second duration.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.UserID == "" {
		return nil, models.NewNotAuthenticatedError("sign in before posting")
	}
	if in.Clip.Path == "" {
		return nil, models.NewValidationError("Recording is required")
	}

	url, err := s.uploader.Upload(ctx, upload.KindPost, in.UserID, in.Clip.Path)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:   in.UserID,
		AudioURL: url,
		Duration: in.Clip.Duration,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewBackendError(err)
	}

	return s.GetPost(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, postID, viewerID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return nil, models.NewBackendError(err)
	}
	return post, nil
}

// DeletePost removes a post and its audio blob. Only the author may
// delete their post.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.GetPost(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewPermissionDeniedError("Only the author can delete a post")
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return models.NewBackendError(err)
	}

	// Blob removal is best effort; the row is already gone.
	if key := keyFromAudioURL(post.AudioURL); key != "" {
		_ = s.store.Delete(ctx, key)
	}
	return nil
}

// keyFromAudioURL recovers the storage key from a public media URL.
// Returns "" when the URL does not point at our media path.
func keyFromAudioURL(url string) string {
	const marker = "/media/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return ""
	}
	return url[idx+len(marker):]
}
