package ports

// PasswordHasher gera e verifica hashes de senha
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
