package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/pkg/pagination"
)

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	UpdateBody(ctx context.Context, id, body string) error
	Delete(ctx context.Context, id string) error
	// ListByPost excludeAuthors 为查看者的可见性排除集（拉黑双向）
	ListByPost(ctx context.Context, postID string, excludeAuthors []string, cur *pagination.Cursor, limit int) ([]*model.Comment, error)
	// DistinctCommenterIDs 帖子下去重后的历史评论者（次级扇出层）
	DistinctCommenterIDs(ctx context.Context, postID string) ([]string, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) UpdateBody(ctx context.Context, id, body string) error {
	return r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("body", body).Error
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{}).Error
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string, excludeAuthors []string, cur *pagination.Cursor, limit int) ([]*model.Comment, error) {
	q := r.db.WithContext(ctx).Where("post_id = ?", postID)
	if len(excludeAuthors) > 0 {
		q = q.Where("author_id NOT IN ?", excludeAuthors)
	}
	var res []*model.Comment
	err := q.Scopes(pagination.Scope(cur)).Limit(limit + 1).Find(&res).Error
	return res, err
}

func (r *commentRepository) DistinctCommenterIDs(ctx context.Context, postID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Distinct("author_id").
		Where("post_id = ?", postID).
		Pluck("author_id", &ids).Error
	return ids, err
}
