package service

import (
	"context"
	"errors"

	"Micro_Blog/internal/model"
	"Micro_Blog/internal/repository/mysql"

	"gorm.io/gorm"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNoPermission = errors.New("no permission")
)

type PostService struct {
	repo    *mysql.PostRepository
	search  *SearchService
	perPage int
}

func NewPostService(repo *mysql.PostRepository, search *SearchService, perPage int) *PostService {
	return &PostService{repo: repo, search: search, perPage: perPage}
}

func (s *PostService) pageSize(size int) int {
	if size <= 0 || size > 50 {
		return s.perPage
	}
	return size
}

func (s *PostService) Create(ctx context.Context, userID uint64, title, subtitle, body string) (*model.Post, error) {
	if title == "" {
		return nil, errors.New("title required")
	}
	post := &model.Post{
		AuthorID: userID,
		Title:    title,
		Subtitle: subtitle,
		Body:     body,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	s.search.AfterCommit(ctx, Changes{Upserts: []model.Searchable{post}})
	return post, nil
}

func (s *PostService) Get(postID uint64) (*model.Post, error) {
	post, err := s.repo.FindByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	return post, err
}

// Edit 先验作者身份再改，author_id 一旦写入不再变
func (s *PostService) Edit(ctx context.Context, userID, postID uint64, title, subtitle, body string) (*model.Post, error) {
	if title == "" {
		return nil, errors.New("title required")
	}
	post, err := s.Get(postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, ErrNoPermission
	}
	if _, err := s.repo.UpdateOwned(postID, userID, title, subtitle, body); err != nil {
		return nil, err
	}
	post.Title, post.Subtitle, post.Body = title, subtitle, body
	s.search.AfterCommit(ctx, Changes{Upserts: []model.Searchable{post}})
	return post, nil
}

// Delete 硬删除。重复删除报 not found，不算异常。
func (s *PostService) Delete(ctx context.Context, userID, postID uint64) error {
	post, err := s.Get(postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrNoPermission
	}
	affected, err := s.repo.DeleteOwned(postID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	s.search.AfterCommit(ctx, Changes{Deletes: []model.Searchable{post}})
	return nil
}

// Explore 全站帖子，不过滤关注关系
func (s *PostService) Explore(page, size int) ([]model.Post, int64, error) {
	size = s.pageSize(size)
	if page <= 0 {
		page = 1
	}
	return s.repo.ListAll((page-1)*size, size)
}

func (s *PostService) ListByAuthor(authorID uint64, page, size int) ([]model.Post, int64, error) {
	size = s.pageSize(size)
	if page <= 0 {
		page = 1
	}
	return s.repo.ListByAuthor(authorID, (page-1)*size, size)
}
