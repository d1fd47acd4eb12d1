package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-social/internal/handlers/dto"
)

// respondError escreve o problem document correspondente ao erro de domínio
func respondError(c *gin.Context, err error) {
	response := dto.ErrorResponseFromDomain(c, err)
	writeProblem(c, response)
}

func respondBindingError(c *gin.Context, err error) {
	writeProblem(c, dto.BindingErrorResponseI18n(c, err))
}

func writeProblem(c *gin.Context, response dto.ErrorResponse) {
	c.Header("Content-Type", dto.ProblemContentType)
	c.AbortWithStatusJSON(response.Status, response)
}

// AbortUnauthorized é usado pelo middleware de autenticação
func AbortUnauthorized(c *gin.Context) {
	writeProblem(c, dto.UnauthorizedErrorResponseI18n(c, "error.unauthorized"))
}

// idParam lê um id numérico positivo da rota; ids inválidos viram 404
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(c, dto.NotFoundErrorResponseI18n(c, "error.not_found.title"))
		return 0, false
	}
	return id, true
}

// pageQuery lê ?page=; ausente ou inválido é página 1
func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
