package service

import (
	"context"
	"io"

	"echodrop/internal/models"
	"echodrop/internal/upload"

	"gorm.io/gorm"
)

type postRepoStub struct {
	CreateFunc        func(ctx context.Context, post *models.Post) error
	GetByIDFunc       func(ctx context.Context, id, viewerID string) (*models.Post, error)
	ListFunc          func(ctx context.Context, limit, offset int, viewerID string) ([]*models.Post, error)
	GetByUserIDFunc   func(ctx context.Context, userID string, limit, offset int, viewerID string) ([]*models.Post, error)
	GetBookmarkedFunc func(ctx context.Context, viewerID string, limit, offset int) ([]*models.Post, error)
	DeleteFunc        func(ctx context.Context, id string) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, post)
	}
	post.ID = "post-1"
	return nil
}

func (s *postRepoStub) GetByID(ctx context.Context, id, viewerID string) (*models.Post, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, id, viewerID)
	}
	return &models.Post{ID: id, UserID: "author-1"}, nil
}

func (s *postRepoStub) List(ctx context.Context, limit, offset int, viewerID string) ([]*models.Post, error) {
	if s.ListFunc != nil {
		return s.ListFunc(ctx, limit, offset, viewerID)
	}
	return nil, nil
}

func (s *postRepoStub) GetByUserID(ctx context.Context, userID string, limit, offset int, viewerID string) ([]*models.Post, error) {
	if s.GetByUserIDFunc != nil {
		return s.GetByUserIDFunc(ctx, userID, limit, offset, viewerID)
	}
	return nil, nil
}

func (s *postRepoStub) GetBookmarked(ctx context.Context, viewerID string, limit, offset int) ([]*models.Post, error) {
	if s.GetBookmarkedFunc != nil {
		return s.GetBookmarkedFunc(ctx, viewerID, limit, offset)
	}
	return nil, nil
}

func (s *postRepoStub) Delete(ctx context.Context, id string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, id)
	}
	return nil
}

type reactionRepoStub struct {
	SetFunc         func(ctx context.Context, postID, userID string, t models.ReactionType) error
	RemoveFunc      func(ctx context.Context, postID, userID string) error
	GetFunc         func(ctx context.Context, postID, userID string) (*models.Reaction, error)
	CountByPostFunc func(ctx context.Context, postID string) (map[models.ReactionType]int, error)
}

func (s *reactionRepoStub) Set(ctx context.Context, postID, userID string, t models.ReactionType) error {
	if s.SetFunc != nil {
		return s.SetFunc(ctx, postID, userID, t)
	}
	return nil
}

func (s *reactionRepoStub) Remove(ctx context.Context, postID, userID string) error {
	if s.RemoveFunc != nil {
		return s.RemoveFunc(ctx, postID, userID)
	}
	return nil
}

func (s *reactionRepoStub) Get(ctx context.Context, postID, userID string) (*models.Reaction, error) {
	if s.GetFunc != nil {
		return s.GetFunc(ctx, postID, userID)
	}
	return nil, nil
}

func (s *reactionRepoStub) CountByPost(ctx context.Context, postID string) (map[models.ReactionType]int, error) {
	if s.CountByPostFunc != nil {
		return s.CountByPostFunc(ctx, postID)
	}
	return nil, nil
}

type bookmarkRepoStub struct {
	AddFunc    func(ctx context.Context, postID, userID string) error
	RemoveFunc func(ctx context.Context, postID, userID string) error
	ExistsFunc func(ctx context.Context, postID, userID string) (bool, error)
}

func (s *bookmarkRepoStub) Add(ctx context.Context, postID, userID string) error {
	if s.AddFunc != nil {
		return s.AddFunc(ctx, postID, userID)
	}
	return nil
}

func (s *bookmarkRepoStub) Remove(ctx context.Context, postID, userID string) error {
	if s.RemoveFunc != nil {
		return s.RemoveFunc(ctx, postID, userID)
	}
	return nil
}

func (s *bookmarkRepoStub) Exists(ctx context.Context, postID, userID string) (bool, error) {
	if s.ExistsFunc != nil {
		return s.ExistsFunc(ctx, postID, userID)
	}
	return false, nil
}

type commentRepoStub struct {
	CreateFunc      func(ctx context.Context, comment *models.Comment) error
	GetByIDFunc     func(ctx context.Context, id string) (*models.Comment, error)
	ListByPostFunc  func(ctx context.Context, postID string) ([]*models.Comment, error)
	CountByPostFunc func(ctx context.Context, postID string) (int64, error)
	DeleteFunc      func(ctx context.Context, id string) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, comment)
	}
	comment.ID = "comment-1"
	return nil
}

func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, id)
	}
	return &models.Comment{ID: id}, nil
}

func (s *commentRepoStub) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	if s.ListByPostFunc != nil {
		return s.ListByPostFunc(ctx, postID)
	}
	return nil, nil
}

func (s *commentRepoStub) CountByPost(ctx context.Context, postID string) (int64, error) {
	if s.CountByPostFunc != nil {
		return s.CountByPostFunc(ctx, postID)
	}
	return 0, nil
}

func (s *commentRepoStub) Delete(ctx context.Context, id string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, id)
	}
	return nil
}

type reportRepoStub struct {
	CreateFunc     func(ctx context.Context, report *models.Report) error
	ListByPostFunc func(ctx context.Context, postID string) ([]*models.Report, error)
	ListFunc       func(ctx context.Context, limit, offset int) ([]*models.Report, error)
}

func (s *reportRepoStub) Create(ctx context.Context, report *models.Report) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, report)
	}
	report.ID = "report-1"
	return nil
}

func (s *reportRepoStub) ListByPost(ctx context.Context, postID string) ([]*models.Report, error) {
	if s.ListByPostFunc != nil {
		return s.ListByPostFunc(ctx, postID)
	}
	return nil, nil
}

func (s *reportRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Report, error) {
	if s.ListFunc != nil {
		return s.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

type userRepoStub struct {
	CreateFunc         func(ctx context.Context, user *models.User) error
	GetByIDFunc        func(ctx context.Context, id string) (*models.User, error)
	GetByUsernameFunc  func(ctx context.Context, username string) (*models.User, error)
	UpdateUsernameFunc func(ctx context.Context, id, username string) (*models.User, error)
	DeleteFunc         func(ctx context.Context, id string) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, user)
	}
	user.ID = "user-1"
	return nil
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.GetByUsernameFunc != nil {
		return s.GetByUsernameFunc(ctx, username)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *userRepoStub) UpdateUsername(ctx context.Context, id, username string) (*models.User, error) {
	if s.UpdateUsernameFunc != nil {
		return s.UpdateUsernameFunc(ctx, id, username)
	}
	return &models.User{ID: id, Username: username}, nil
}

func (s *userRepoStub) Delete(ctx context.Context, id string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, id)
	}
	return nil
}

type uploaderStub struct {
	UploadFunc func(ctx context.Context, kind upload.Kind, userID, path string) (string, error)
}

func (s *uploaderStub) Upload(ctx context.Context, kind upload.Kind, userID, path string) (string, error) {
	if s.UploadFunc != nil {
		return s.UploadFunc(ctx, kind, userID, path)
	}
	return "http://localhost:8080/media/" + string(kind) + "s/" + userID + "/1.m4a", nil
}

type blobStoreStub struct {
	Deleted []string
}

func (s *blobStoreStub) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	return "http://localhost:8080/media/" + key, nil
}

func (s *blobStoreStub) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, nil
}

func (s *blobStoreStub) Delete(ctx context.Context, key string) error {
	s.Deleted = append(s.Deleted, key)
	return nil
}

func (s *blobStoreStub) URL(key string) string {
	return "http://localhost:8080/media/" + key
}
