package postgres

import "time"

// UserModel é o model GORM para usuários
type UserModel struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"`
	Username     string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	Email        string     `gorm:"type:varchar(120);uniqueIndex;not null"`
	PasswordHash string     `gorm:"type:varchar(256)"`
	Role         string     `gorm:"type:varchar(20);not null;default:user;index"`
	AboutMe      *string    `gorm:"type:varchar(140)"`
	LastSeen     *time.Time `gorm:"index"`
}

func (UserModel) TableName() string {
	return "users"
}

// PostModel é o model GORM para posts
type PostModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Title      string    `gorm:"type:varchar(200);not null"`
	Body       string    `gorm:"type:varchar(500);not null"`
	Image      *string   `gorm:"type:varchar(255)"`
	Timestamp  time.Time `gorm:"not null;index"`
	UserID     int64     `gorm:"not null;index"`
	IsApproved bool      `gorm:"not null;default:false;index"`

	Author UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (PostModel) TableName() string {
	return "posts"
}

// CommentModel é o model GORM para comentários
type CommentModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Body      string    `gorm:"type:varchar(200);not null"`
	Timestamp time.Time `gorm:"not null;index"`
	UserID    int64     `gorm:"not null;index"`
	PostID    int64     `gorm:"not null;index"`

	Author UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post   PostModel `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (CommentModel) TableName() string {
	return "comments"
}

// FollowModel é a tabela associativa follower -> followed.
// A chave composta garante semântica de conjunto.
type FollowModel struct {
	FollowerID int64 `gorm:"primaryKey;autoIncrement:false"`
	FollowedID int64 `gorm:"primaryKey;autoIncrement:false;index"`

	Follower UserModel `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followed UserModel `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
}

func (FollowModel) TableName() string {
	return "followers"
}

// postRow é o resultado das listagens com dados do autor já resolvidos
type postRow struct {
	ID             int64
	Title          string
	Body           string
	Image          *string
	Timestamp      time.Time
	UserID         int64
	IsApproved     bool
	AuthorUsername string
	CommentCount   int64
}

// commentRow é o resultado das listagens de comentários com o autor
type commentRow struct {
	ID             int64
	Body           string
	Timestamp      time.Time
	UserID         int64
	PostID         int64
	AuthorUsername string
}
