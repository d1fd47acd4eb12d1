package ports

import "context"

// UnitOfWork define a interface para gerenciamento de transações.
// Repositórios chamados com o contexto recebido por fn participam da mesma transação.
type UnitOfWork interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
