package entities

// PostStatusFilter filtra posts por estado de aprovação
type PostStatusFilter string

const (
	PostStatusAll      PostStatusFilter = "all"
	PostStatusApproved PostStatusFilter = "approved"
	PostStatusPending  PostStatusFilter = "pending"
)

// ParsePostStatusFilter trata valores desconhecidos como "all"
func ParsePostStatusFilter(s string) PostStatusFilter {
	switch PostStatusFilter(s) {
	case PostStatusApproved, PostStatusPending:
		return PostStatusFilter(s)
	default:
		return PostStatusAll
	}
}

// PostOrder define a ordenação das listagens de posts
type PostOrder string

const (
	OrderTimestampAsc  PostOrder = "timestamp_asc"
	OrderTimestampDesc PostOrder = "timestamp_desc"
	OrderTitleAsc      PostOrder = "title_asc"
	OrderTitleDesc     PostOrder = "title_desc"
)

// ParsePostOrder trata valores desconhecidos como timestamp_desc
func ParsePostOrder(s string) PostOrder {
	switch PostOrder(s) {
	case OrderTimestampAsc, OrderTitleAsc, OrderTitleDesc:
		return PostOrder(s)
	default:
		return OrderTimestampDesc
	}
}

// Metrics são os totais globais da plataforma, independentes de filtro
type Metrics struct {
	TotalPosts     int64
	PendingPosts   int64
	TotalUsers     int64
	PostsWithImage int64
}

// DailyCount é um ponto de uma série temporal agregada por dia (UTC)
type DailyCount struct {
	Day   string // YYYY-MM-DD
	Count int64
}

// PosterCount é uma linha do ranking de autores
type PosterCount struct {
	UserID    int64
	Username  string
	PostCount int64
}

// Analytics agrega séries diárias e o ranking de autores
type Analytics struct {
	PostsPerDay       []DailyCount
	ApprovedPerDay    []DailyCount
	PendingPerDay     []DailyCount
	ActiveUsersPerDay []DailyCount
	TopPosters        []PosterCount
}

// Dashboard é a visão inicial do administrador
type Dashboard struct {
	Pending     Page[*Post]
	TotalUsers  int64
	ActiveToday int64
}
