package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/avantpro-social/internal/handlers/dto"
	"github.com/rafabene/avantpro-social/internal/handlers/middleware"
	"github.com/rafabene/avantpro-social/internal/services"
)

// ReportHandler expõe relatório, analytics e exportação CSV
type ReportHandler struct {
	reportService *services.ReportService
	posts         dto.PostConverter
}

// NewReportHandler cria um novo ReportHandler
func NewReportHandler(reportService *services.ReportService, posts dto.PostConverter) *ReportHandler {
	return &ReportHandler{reportService: reportService, posts: posts}
}

// Report retorna a página filtrada de posts e as métricas globais
//
//	@Summary	Relatório
//	@Tags		reports
//	@Produce	json
//	@Security	BearerAuth
//	@Param		status	query		string	false	"all, approved ou pending"
//	@Param		user	query		string	false	"Parte do username do autor"
//	@Param		order	query		string	false	"timestamp_desc, timestamp_asc, title_asc ou title_desc"
//	@Param		page	query		int		false	"Página"
//	@Success	200		{object}	dto.ReportResponse
//	@Failure	403		{object}	dto.ErrorResponse
//	@Router		/reports [get]
func (h *ReportHandler) Report(c *gin.Context) {
	result, err := h.reportService.Report(c.Request.Context(), middleware.ActorFrom(c), services.PostQuery{
		Status:   c.Query("status"),
		Order:    c.Query("order"),
		Username: c.Query("user"),
		Page:     pageQuery(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReportResponse{
		Posts:   dto.ToPageResponse(result.Posts, h.posts.Convert),
		Metrics: dto.ToMetricsResponse(result.Metrics),
	})
}

// Analytics retorna as séries diárias e o ranking de autores
//
//	@Summary	Analytics
//	@Tags		reports
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.AnalyticsResponse
//	@Router		/reports/analytics [get]
func (h *ReportHandler) Analytics(c *gin.Context) {
	analytics, err := h.reportService.Analytics(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAnalyticsResponse(analytics))
}

// Export baixa o relatório em CSV (kind=posts, padrão, ou kind=users)
//
//	@Summary	Exportar CSV
//	@Tags		reports
//	@Produce	text/csv
//	@Security	BearerAuth
//	@Param		kind	query		string	false	"posts ou users"
//	@Param		status	query		string	false	"all, approved ou pending"
//	@Param		user		query		string	false	"Parte do username (kind=posts; fallback em kind=users)"
//	@Param		username	query		string	false	"Parte do username (kind=users)"
//	@Param		role	query		string	false	"Papel (kind=users)"
//	@Param		order	query		string	false	"Ordenação (kind=posts)"
//	@Success	200		{string}	string
//	@Router		/reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	kind := services.ExportKind(c.DefaultQuery("kind", string(services.ExportPosts)))

	// mesmos parâmetros da listagem correspondente: ?user= no relatório, ?username= em /admin/users
	username := c.Query("user")
	if kind == services.ExportUsers {
		if v, ok := c.GetQuery("username"); ok {
			username = v
		}
	}

	data, err := h.reportService.ExportCSV(c.Request.Context(), middleware.ActorFrom(c), kind, services.ExportQuery{
		Status:   c.Query("status"),
		Order:    c.Query("order"),
		Username: username,
		Role:     c.Query("role"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	filename := "platform_report.csv"
	if kind == services.ExportUsers {
		filename = "users_report.csv"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
