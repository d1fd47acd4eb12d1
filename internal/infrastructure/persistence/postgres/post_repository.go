package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	"github.com/rafabene/avantpro-social/internal/domain/repositories"
)

const postColumns = "posts.id, posts.title, posts.body, posts.image, posts.timestamp, posts.user_id, posts.is_approved, " +
	"users.username AS author_username, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// PostRepository implementa repositories.PostRepository
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository cria um novo PostRepository
func NewPostRepository(db *gorm.DB) repositories.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	model := &PostModel{
		Title:      post.Title,
		Body:       post.Body,
		Image:      post.Image,
		Timestamp:  post.Timestamp.UTC(),
		UserID:     post.AuthorID,
		IsApproved: post.IsApproved,
	}

	db := getDB(ctx, r.db)
	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}

	post.ID = model.ID
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*entities.Post, error) {
	var rows []postRow

	db := getDB(ctx, r.db)
	err := r.baseQuery(db).Select(postColumns).Where("posts.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return rows[0].toEntity(), nil
}

// Update altera apenas título e corpo; timestamp e aprovação não mudam
func (r *PostRepository) Update(ctx context.Context, post *entities.Post) error {
	db := getDB(ctx, r.db)
	return db.Model(&PostModel{}).Where("id = ?", post.ID).Updates(map[string]any{
		"title": post.Title,
		"body":  post.Body,
	}).Error
}

func (r *PostRepository) Approve(ctx context.Context, id int64) error {
	db := getDB(ctx, r.db)
	return db.Model(&PostModel{}).Where("id = ?", id).Update("is_approved", true).Error
}

// Delete remove o post e seus comentários
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	db := getDB(ctx, r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&CommentModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&PostModel{}).Error
	})
}

func (r *PostRepository) List(ctx context.Context, filters repositories.PostFilters) ([]*entities.Post, int64, error) {
	db := getDB(ctx, r.db)
	query := r.baseQuery(db)

	switch filters.Status {
	case entities.PostStatusApproved:
		query = query.Where("posts.is_approved = ?", true)
	case entities.PostStatusPending:
		query = query.Where("posts.is_approved = ?", false)
	}
	if filters.Username != "" {
		query = query.Where("LOWER(users.username) LIKE ? ESCAPE '\\'", likePattern(filters.Username))
	}
	if filters.AuthorID != nil {
		query = query.Where("posts.user_id = ?", *filters.AuthorID)
	}
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where("(LOWER(posts.title) LIKE ? ESCAPE '\\' OR LOWER(posts.body) LIKE ? ESCAPE '\\')", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Select(postColumns).Order(orderClause(filters.Order))
	query = paginate(query, filters.Page, filters.PageSize)

	var rows []postRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rowsToPosts(rows), total, nil
}

// Feed faz um LEFT JOIN nas arestas do próprio usuário: cada post casa com no máximo uma
// aresta (chave composta), então não há duplicatas e posts próprios entram mesmo sem follows.
func (r *PostRepository) Feed(ctx context.Context, userID int64, page, pageSize int) ([]*entities.Post, int64, error) {
	db := getDB(ctx, r.db)
	query := r.baseQuery(db).
		Joins("LEFT JOIN followers ON followers.followed_id = posts.user_id AND followers.follower_id = ?", userID).
		Where("posts.is_approved = ?", true).
		Where("(followers.follower_id IS NOT NULL OR posts.user_id = ?)", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Select(postColumns).Order(orderClause(entities.OrderTimestampDesc))
	query = paginate(query, page, pageSize)

	var rows []postRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rowsToPosts(rows), total, nil
}

func (r *PostRepository) ImageKeysByAuthor(ctx context.Context, authorID int64) ([]string, error) {
	var keys []string
	err := getDB(ctx, r.db).Model(&PostModel{}).
		Where("user_id = ? AND image IS NOT NULL AND image <> ''", authorID).
		Pluck("image", &keys).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return keys, nil
}

func (r *PostRepository) baseQuery(db *gorm.DB) *gorm.DB {
	return db.Table("posts").Joins("JOIN users ON users.id = posts.user_id")
}

// orderClause sempre desempata pelo id para paginação determinística
func orderClause(order entities.PostOrder) string {
	switch order {
	case entities.OrderTimestampAsc:
		return "posts.timestamp ASC, posts.id ASC"
	case entities.OrderTitleAsc:
		return "posts.title ASC, posts.id ASC"
	case entities.OrderTitleDesc:
		return "posts.title DESC, posts.id DESC"
	default:
		return "posts.timestamp DESC, posts.id DESC"
	}
}

func (row postRow) toEntity() *entities.Post {
	return &entities.Post{
		ID:             row.ID,
		Title:          row.Title,
		Body:           row.Body,
		Image:          row.Image,
		Timestamp:      row.Timestamp.UTC(),
		AuthorID:       row.UserID,
		IsApproved:     row.IsApproved,
		AuthorUsername: row.AuthorUsername,
		CommentCount:   row.CommentCount,
	}
}

func rowsToPosts(rows []postRow) []*entities.Post {
	posts := make([]*entities.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toEntity())
	}
	return posts
}
