package errors

import "errors"

// Business errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound       = errors.New("error.user_not_found")
	ErrPostNotFound       = errors.New("error.post_not_found")
	ErrCommentNotFound    = errors.New("error.comment_not_found")
	ErrUsernameTaken      = errors.New("error.username_already_exists")
	ErrEmailAlreadyExists = errors.New("error.email_already_exists")
	ErrInvalidCredentials = errors.New("error.invalid_credentials")
	ErrUnauthorized       = errors.New("error.unauthorized")
	ErrForbidden          = errors.New("error.forbidden")
	ErrSelfFollow         = errors.New("error.self_follow")
	ErrSelfDelete         = errors.New("error.self_delete")
	ErrProtectedAdmin     = errors.New("error.protected_admin")
	ErrStorage            = errors.New("error.storage")
)

// Domain errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrInvalidEmail    = errors.New("error.invalid_email")
	ErrInvalidUsername = errors.New("error.invalid_username")
	ErrInvalidPassword = errors.New("error.invalid_password")
	ErrInvalidRole     = errors.New("error.invalid_role")
	ErrInvalidTitle    = errors.New("error.invalid_title")
	ErrInvalidBody     = errors.New("error.invalid_body")
	ErrInvalidAboutMe  = errors.New("error.invalid_about_me")
	ErrInvalidImage    = errors.New("error.invalid_image")
	ErrInvalidExport   = errors.New("error.invalid_export")
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base virá de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation    = "/problems/validation-error"
	ProblemTypeNotFound      = "/problems/not-found"
	ProblemTypeConflict      = "/problems/conflict"
	ProblemTypeUnauthorized  = "/problems/unauthorized"
	ProblemTypeForbidden     = "/problems/forbidden"
	ProblemTypeSelfReference = "/problems/self-reference"
	ProblemTypeInternal      = "/problems/internal-error"
	ProblemTypeBadRequest    = "/problems/bad-request"
)

// Kind classifica um erro dentro da taxonomia exposta à camada de apresentação
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindPermissionDenied
	KindValidation
	KindConflict
	KindSelfReference
	KindUnauthorized
	KindStorage
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrUserNotFound, KindNotFound},
	{ErrPostNotFound, KindNotFound},
	{ErrCommentNotFound, KindNotFound},
	{ErrForbidden, KindPermissionDenied},
	{ErrUsernameTaken, KindConflict},
	{ErrEmailAlreadyExists, KindConflict},
	{ErrInvalidEmail, KindValidation},
	{ErrInvalidUsername, KindValidation},
	{ErrInvalidPassword, KindValidation},
	{ErrInvalidRole, KindValidation},
	{ErrInvalidTitle, KindValidation},
	{ErrInvalidBody, KindValidation},
	{ErrInvalidAboutMe, KindValidation},
	{ErrInvalidImage, KindValidation},
	{ErrInvalidExport, KindValidation},
	{ErrSelfFollow, KindSelfReference},
	{ErrSelfDelete, KindSelfReference},
	{ErrProtectedAdmin, KindSelfReference},
	{ErrInvalidCredentials, KindUnauthorized},
	{ErrUnauthorized, KindUnauthorized},
	{ErrStorage, KindStorage},
}

// KindOf retorna a categoria do erro. Erros fora da taxonomia são KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// MessageID retorna a chave i18n do sentinel que classifica err.
// Detalhes internos (ex: erro do driver) nunca fazem parte da chave.
func MessageID(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.err.Error()
		}
	}
	return "error.internal.detail"
}

// Storage embrulha uma falha do banco ou do blob store em ErrStorage
func Storage(err error) error {
	if err == nil {
		return nil
	}
	return &DomainError{
		Type:    ProblemTypeInternal,
		Title:   "storage failure",
		Message: ErrStorage.Error(),
		Err:     errors.Join(ErrStorage, err),
	}
}

// DomainError representa um erro de domínio com contexto adicional
type DomainError struct {
	Type    string
	Title   string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}
