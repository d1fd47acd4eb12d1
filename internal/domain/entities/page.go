package entities

import "math"

// maxOffset limita o deslocamento de qualquer página; páginas além disso são sempre vazias
const maxOffset = math.MaxInt32

// Page é uma página de resultados com navegação calculada pelo total de linhas
type Page[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int64
	HasNext  bool
	HasPrev  bool
}

// PageRequest é a requisição de uma página (1-based)
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize corrige página < 1 e tamanho inválido. Páginas enormes são limitadas à
// primeira página depois de maxOffset, para que (Page-1)*PageSize nunca estoure.
func (r PageRequest) Normalize(defaultSize int) PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = defaultSize
	}
	if r.PageSize < 1 {
		r.PageSize = 10
	}
	if last := maxOffset/r.PageSize + 1; r.Page > last {
		r.Page = last
	}
	return r
}

// Offset retorna o deslocamento da página
func (r PageRequest) Offset() int {
	r = r.Normalize(r.PageSize)
	return (r.Page - 1) * r.PageSize
}

// NewPage monta a página a partir dos itens buscados e do total de linhas.
// Página além da última resulta em Items vazio, nunca nil.
func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:    items,
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
		HasNext:  hasNext(req, total),
		HasPrev:  req.Page > 1,
	}
}

// hasNext equivale a Page*PageSize < total, sem multiplicar
func hasNext(req PageRequest, total int64) bool {
	if req.Page < 1 || req.PageSize < 1 || total <= 0 {
		return false
	}
	return int64(req.Page) <= (total-1)/int64(req.PageSize)
}

// Pages retorna o número de páginas (ceil(total/pageSize))
func (p Page[T]) Pages() int {
	if p.PageSize < 1 || p.Total == 0 {
		return 0
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}
