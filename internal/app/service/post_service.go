package service

import (
	"blog_api/internal/common"
	"blog_api/internal/domain/model"
	"blog_api/internal/domain/repository"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdatePostRequest distinguishes an omitted field from one set to the empty
// string: a nil pointer keeps the stored value, a non-nil pointer is applied.
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

func (s *PostService) CreatePost(ctx context.Context, authorID string, req CreatePostRequest) (*model.Post, error) {
	if req.Title == "" || req.Content == "" {
		return nil, fmt.Errorf("title and content are required: %w", common.ErrBadRequest)
	}

	post := &model.Post{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Slug:     slug.Make(req.Title),
		Content:  req.Content,
		AuthorID: authorID,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		// Duplicate titles are allowed; disambiguate the slug and retry.
		if errors.Is(err, common.ErrConflict) {
			post.Slug = suffixedSlug(post.Slug, post.ID)
			if err := s.postRepo.Create(ctx, post); err != nil {
				return nil, fmt.Errorf("failed to create post: %w", err)
			}
			return post, nil
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// suffixedSlug appends an id fragment so two posts may share a title.
func suffixedSlug(base, id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return base + "-" + id
}

func (s *PostService) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := s.postRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPostBySlug(ctx context.Context, postSlug string) (*model.Post, error) {
	post, err := s.postRepo.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost applies the ownership check before merging the provided fields.
func (s *PostService) UpdatePost(ctx context.Context, userID, postID string, req UpdatePostRequest) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != userID {
		return nil, fmt.Errorf("you can only update your own posts: %w", common.ErrForbidden)
	}

	if req.Title != nil {
		post.Title = *req.Title
		post.Slug = slug.Make(*req.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		if errors.Is(err, common.ErrConflict) && req.Title != nil {
			post.Slug = suffixedSlug(post.Slug, post.ID)
			if err := s.postRepo.Update(ctx, post); err != nil {
				return nil, fmt.Errorf("failed to update post: %w", err)
			}
			return post, nil
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != userID {
		return fmt.Errorf("you can only delete your own posts: %w", common.ErrForbidden)
	}

	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}
