package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate cria/atualiza o schema na ordem das chaves estrangeiras
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserModel{}, &PostModel{}, &CommentModel{}, &FollowModel{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
