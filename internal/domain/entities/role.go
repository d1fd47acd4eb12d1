package entities

// Role representa o papel de um usuário no sistema
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RoleUser    Role = "user"
)

// Permission representa uma classe de operação controlada pela política de acesso
type Permission string

const (
	// Aprovar/deletar qualquer post ou comentário
	PermissionModerateContent Permission = "content.moderate"
	// Criar/deletar contas e alterar papéis
	PermissionManageUsers Permission = "users.manage"
	// Dashboard, todos os posts, todos os usuários
	PermissionAdminViews Permission = "admin.views"
	// Relatório, analytics e exportação CSV
	PermissionViewReports Permission = "reports.view"
	// Criar/editar/deletar o próprio post ou comentário
	PermissionManageOwnContent Permission = "content.own"
	// Seguir, feed e busca
	PermissionSocial Permission = "social.use"
)

// RolePermissions mapeia roles para suas permissões
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionModerateContent,
		PermissionManageUsers,
		PermissionAdminViews,
		PermissionViewReports,
		PermissionManageOwnContent,
		PermissionSocial,
	},
	RoleAnalyst: {
		PermissionViewReports,
		PermissionManageOwnContent,
		PermissionSocial,
	},
	RoleUser: {
		PermissionManageOwnContent,
		PermissionSocial,
	},
}

// ParseRole converte uma string em Role, retornando false para valores desconhecidos
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if _, ok := RolePermissions[r]; !ok {
		return "", false
	}
	return r, true
}

// IsValid verifica se o role existe na tabela de permissões
func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// GetPermissions retorna permissões de um role
func (r Role) GetPermissions() []Permission {
	return RolePermissions[r]
}

// HasPermission verifica se role tem permissão
func (r Role) HasPermission(permission Permission) bool {
	permissions := RolePermissions[r]
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// Actor é a identidade já autenticada que invoca uma operação
type Actor struct {
	ID   int64
	Role Role
}

// Can é o único predicado de autorização do sistema.
// Actor sem ID (anônimo) não tem nenhuma permissão.
func Can(actor Actor, permission Permission) bool {
	if actor.ID == 0 {
		return false
	}
	return actor.Role.HasPermission(permission)
}
