package dto

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/moogar0880/problems"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
)

// ProblemContentType é o media type das respostas de erro (RFC 7807)
const ProblemContentType = problems.ProblemMediaType

// ErrorResponse segue RFC 7807 (Problem Details for HTTP APIs)
type ErrorResponse struct {
	problems.Problem
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError representa um erro de validação de campo
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

// PageResponse é o envelope das listagens paginadas
type PageResponse[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	Pages    int   `json:"pages"`
	HasNext  bool  `json:"has_next"`
	HasPrev  bool  `json:"has_prev"`
}

// ToPageResponse converte uma página de entidades usando conv
func ToPageResponse[E, T any](page entities.Page[E], conv func(E) T) PageResponse[T] {
	items := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, conv(item))
	}
	return PageResponse[T]{
		Items:    items,
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
		Pages:    page.Pages(),
		HasNext:  page.HasNext,
		HasPrev:  page.HasPrev,
	}
}

// NewErrorResponseI18n cria uma resposta de erro com título e detalhe traduzidos
func NewErrorResponseI18n(c *gin.Context, problemType, titleKey, detailKey string, status int, params ...map[string]any) ErrorResponse {
	baseURL := c.GetString("base_url")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return ErrorResponse{
		Problem: problems.Problem{
			Type:     baseURL + problemType,
			Title:    T(c, titleKey, params...),
			Status:   status,
			Detail:   T(c, detailKey, params...),
			Instance: c.Request.URL.Path,
		},
	}
}

// ValidationErrorResponseI18n cria uma resposta de erro de validação
func ValidationErrorResponseI18n(c *gin.Context, validationErrors []ValidationError) ErrorResponse {
	response := NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeValidation,
		"error.validation.title",
		"error.validation.detail",
		http.StatusBadRequest,
	)
	response.Errors = validationErrors
	return response
}

// BindingErrorResponseI18n traduz erros do binding do gin (validator/v10 ou JSON malformado)
func BindingErrorResponseI18n(c *gin.Context, err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewErrorResponseI18n(
			c,
			domainerrors.ProblemTypeBadRequest,
			"error.bad_request.title",
			"error.bad_request.detail",
			http.StatusBadRequest,
		)
	}

	fields := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		key := "validation." + fe.Tag()
		params := map[string]any{"Field": field, "Param": fe.Param()}

		message := T(c, key, params)
		if message == key {
			message = T(c, "validation.invalid", params)
		}

		fields = append(fields, ValidationError{Field: field, Message: message, Tag: fe.Tag()})
	}
	return ValidationErrorResponseI18n(c, fields)
}

// NotFoundErrorResponseI18n cria uma resposta de erro 404
func NotFoundErrorResponseI18n(c *gin.Context, detailKey string) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeNotFound,
		"error.not_found.title",
		detailKey,
		http.StatusNotFound,
	)
}

// UnauthorizedErrorResponseI18n cria uma resposta de erro 401
func UnauthorizedErrorResponseI18n(c *gin.Context, detailKey string) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeUnauthorized,
		"error.unauthorized.title",
		detailKey,
		http.StatusUnauthorized,
	)
}

// ErrorResponseFromDomain classifica err pela taxonomia do domínio.
// Detalhes internos nunca aparecem na resposta: apenas a mensagem traduzida do sentinel.
func ErrorResponseFromDomain(c *gin.Context, err error) ErrorResponse {
	detailKey := domainerrors.MessageID(err)

	switch domainerrors.KindOf(err) {
	case domainerrors.KindNotFound:
		return NotFoundErrorResponseI18n(c, detailKey)
	case domainerrors.KindPermissionDenied:
		return NewErrorResponseI18n(c, domainerrors.ProblemTypeForbidden, "error.forbidden.title", detailKey, http.StatusForbidden)
	case domainerrors.KindValidation:
		return NewErrorResponseI18n(c, domainerrors.ProblemTypeValidation, "error.validation.title", detailKey, http.StatusBadRequest)
	case domainerrors.KindConflict:
		return NewErrorResponseI18n(c, domainerrors.ProblemTypeConflict, "error.conflict.title", detailKey, http.StatusConflict)
	case domainerrors.KindSelfReference:
		return NewErrorResponseI18n(c, domainerrors.ProblemTypeSelfReference, "error.self_reference.title", detailKey, http.StatusUnprocessableEntity)
	case domainerrors.KindUnauthorized:
		return UnauthorizedErrorResponseI18n(c, detailKey)
	default:
		return NewErrorResponseI18n(c, domainerrors.ProblemTypeInternal, "error.internal.title", "error.internal.detail", http.StatusInternalServerError)
	}
}
