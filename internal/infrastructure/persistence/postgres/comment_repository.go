package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	"github.com/rafabene/avantpro-social/internal/domain/repositories"
)

const commentColumns = "comments.id, comments.body, comments.timestamp, comments.user_id, comments.post_id, " +
	"users.username AS author_username"

// CommentRepository implementa repositories.CommentRepository
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository cria um novo CommentRepository
func NewCommentRepository(db *gorm.DB) repositories.CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	model := &CommentModel{
		Body:      comment.Body,
		Timestamp: comment.Timestamp.UTC(),
		UserID:    comment.AuthorID,
		PostID:    comment.PostID,
	}

	db := getDB(ctx, r.db)
	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}

	comment.ID = model.ID
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*entities.Comment, error) {
	var rows []commentRow

	db := getDB(ctx, r.db)
	err := r.baseQuery(db).Select(commentColumns).Where("comments.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return rows[0].toEntity(), nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	db := getDB(ctx, r.db)
	return db.Where("id = ?", id).Delete(&CommentModel{}).Error
}

// ListByPost lista comentários do mais antigo para o mais novo
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64, page, pageSize int) ([]*entities.Comment, int64, error) {
	db := getDB(ctx, r.db)
	query := r.baseQuery(db).Where("comments.post_id = ?", postID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Select(commentColumns).Order("comments.timestamp ASC, comments.id ASC")
	query = paginate(query, page, pageSize)

	var rows []commentRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	comments := make([]*entities.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.toEntity())
	}
	return comments, total, nil
}

func (r *CommentRepository) baseQuery(db *gorm.DB) *gorm.DB {
	return db.Table("comments").Joins("JOIN users ON users.id = comments.user_id")
}

func (row commentRow) toEntity() *entities.Comment {
	return &entities.Comment{
		ID:             row.ID,
		Body:           row.Body,
		Timestamp:      row.Timestamp.UTC(),
		AuthorID:       row.UserID,
		PostID:         row.PostID,
		AuthorUsername: row.AuthorUsername,
	}
}
