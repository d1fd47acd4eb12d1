package ports

import "context"

// CounterCache guarda contagens de seguidores/seguindo.
// Falhas do cache nunca devem impedir a resposta: o serviço cai para o banco.
//
// Cada chave tem uma versão que Invalidate avança. Set só grava se a versão ainda for a
// lida no Get, então uma contagem carregada antes de um follow não sobrescreve a invalidação.
type CounterCache interface {
	Get(ctx context.Context, key string) (value int64, version int64, ok bool, err error)
	Set(ctx context.Context, key string, value int64, version int64) error
	Invalidate(ctx context.Context, keys ...string) error
}
