package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-social/internal/handlers/middleware"
	"github.com/rafabene/avantpro-social/internal/infrastructure/i18n"
)

const fallbackLanguage = "en"

// T traduz key no idioma da requisição.
// Uso: dto.T(c, "error.not_found.detail", map[string]any{"Resource": "Post"})
func T(c *gin.Context, key string, params ...map[string]any) string {
	value, exists := c.Get(middleware.I18nServiceContextKey)
	if !exists {
		return key
	}

	service, ok := value.(*i18n.Service)
	if !ok {
		return key
	}

	return service.T(GetLanguage(c), key, params...)
}

// GetLanguage retorna o idioma configurado no contexto da requisição
func GetLanguage(c *gin.Context) string {
	if lang, ok := c.Get(middleware.LanguageContextKey); ok {
		if s, ok := lang.(string); ok && s != "" {
			return s
		}
	}
	return fallbackLanguage
}
