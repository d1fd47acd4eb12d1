package postgres

import (
	"strings"

	"gorm.io/gorm"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern monta "%termo%" em minúsculas, escapando curingas digitados pelo usuário
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// paginate aplica LIMIT/OFFSET; pageSize <= 0 significa sem paginação
func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return query
	}
	req := entities.PageRequest{Page: page, PageSize: pageSize}
	return query.Limit(pageSize).Offset(req.Offset())
}
