package dto

import (
	"github.com/rafabene/avantpro-social/internal/domain/entities"
)

// MetricsResponse são os totais globais do relatório
type MetricsResponse struct {
	TotalPosts     int64 `json:"total_posts"`
	PendingPosts   int64 `json:"pending_posts"`
	TotalUsers     int64 `json:"total_users"`
	PostsWithImage int64 `json:"posts_with_images"`
}

// ReportResponse é uma página do relatório com as métricas
type ReportResponse struct {
	Posts   PageResponse[PostResponse] `json:"posts"`
	Metrics MetricsResponse            `json:"metrics"`
}

// DailyCountResponse é um ponto da série diária
type DailyCountResponse struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// PosterResponse é uma linha do ranking de autores
type PosterResponse struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	PostCount int64  `json:"post_count"`
}

// AnalyticsResponse agrega as séries diárias e o ranking
type AnalyticsResponse struct {
	PostsPerDay       []DailyCountResponse `json:"posts_per_day"`
	ApprovedPerDay    []DailyCountResponse `json:"approved_per_day"`
	PendingPerDay     []DailyCountResponse `json:"pending_per_day"`
	ActiveUsersPerDay []DailyCountResponse `json:"active_users_per_day"`
	TopPosters        []PosterResponse     `json:"top_posters"`
}

// DashboardResponse é a visão inicial do administrador
type DashboardResponse struct {
	Pending     PageResponse[PostResponse] `json:"pending"`
	TotalUsers  int64                      `json:"total_users"`
	ActiveToday int64                      `json:"active_today"`
}

// ToMetricsResponse converte as métricas globais
func ToMetricsResponse(m entities.Metrics) MetricsResponse {
	return MetricsResponse{
		TotalPosts:     m.TotalPosts,
		PendingPosts:   m.PendingPosts,
		TotalUsers:     m.TotalUsers,
		PostsWithImage: m.PostsWithImage,
	}
}

// ToAnalyticsResponse converte o analytics
func ToAnalyticsResponse(a entities.Analytics) AnalyticsResponse {
	top := make([]PosterResponse, 0, len(a.TopPosters))
	for _, p := range a.TopPosters {
		top = append(top, PosterResponse{UserID: p.UserID, Username: p.Username, PostCount: p.PostCount})
	}
	return AnalyticsResponse{
		PostsPerDay:       toDaily(a.PostsPerDay),
		ApprovedPerDay:    toDaily(a.ApprovedPerDay),
		PendingPerDay:     toDaily(a.PendingPerDay),
		ActiveUsersPerDay: toDaily(a.ActiveUsersPerDay),
		TopPosters:        top,
	}
}

func toDaily(series []entities.DailyCount) []DailyCountResponse {
	out := make([]DailyCountResponse, 0, len(series))
	for _, d := range series {
		out = append(out, DailyCountResponse{Day: d.Day, Count: d.Count})
	}
	return out
}
