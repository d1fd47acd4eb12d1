package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/domain/ports"
	"github.com/rafabene/avantpro-social/internal/domain/repositories"
)

// TopPostersLimit é o tamanho do ranking de autores no analytics
const TopPostersLimit = 5

const dayLayout = "2006-01-02"

// ExportKind escolhe o conjunto exportado em CSV
type ExportKind string

const (
	ExportPosts ExportKind = "posts"
	ExportUsers ExportKind = "users"
)

var (
	postsCSVHeader = []string{"Post ID", "Title", "Author", "Status", "Comments", "Timestamp"}
	usersCSVHeader = []string{"User ID", "Username", "Email", "Role", "Posts", "Last Seen"}
)

// ReportService responde às consultas administrativas, relatórios e exportações
type ReportService struct {
	postRepo  repositories.PostRepository
	userRepo  repositories.UserRepository
	statsRepo repositories.StatsRepository
	recorder  ports.ActionRecorder
	logger    ports.Logger
	pageSize  int
}

// ReportDeps agrupa as dependências do ReportService. Recorder é opcional.
type ReportDeps struct {
	Posts    repositories.PostRepository
	Users    repositories.UserRepository
	Stats    repositories.StatsRepository
	Recorder ports.ActionRecorder
	Logger   ports.Logger
	PageSize int
}

// NewReportService cria um novo ReportService
func NewReportService(deps ReportDeps) *ReportService {
	return &ReportService{
		postRepo:  deps.Posts,
		userRepo:  deps.Users,
		statsRepo: deps.Stats,
		recorder:  recorderOrNoop(deps.Recorder),
		logger:    deps.Logger,
		pageSize:  pageSizeOrDefault(deps.PageSize),
	}
}

// PostQuery filtra as listagens de posts dos relatórios.
// Valores desconhecidos de Status e Order caem nos padrões (all, timestamp_desc).
type PostQuery struct {
	Status   string
	Order    string
	Username string
	Page     int
}

func (q PostQuery) filters() repositories.PostFilters {
	return repositories.PostFilters{
		Status:   entities.ParsePostStatusFilter(q.Status),
		Order:    entities.ParsePostOrder(q.Order),
		Username: strings.TrimSpace(q.Username),
	}
}

// UserQuery filtra a listagem de usuários. Role vazio não filtra.
type UserQuery struct {
	Username string
	Role     string
	Page     int
}

func (q UserQuery) filters() (repositories.UserFilters, error) {
	filters := repositories.UserFilters{Username: strings.TrimSpace(q.Username)}
	if role := strings.TrimSpace(q.Role); role != "" {
		parsed, ok := entities.ParseRole(role)
		if !ok {
			return filters, domainerrors.ErrInvalidRole
		}
		filters.Role = &parsed
	}
	return filters, nil
}

// ReportResult é uma página do relatório com as métricas globais
type ReportResult struct {
	Posts   entities.Page[*entities.Post]
	Metrics entities.Metrics
}

// ListPosts é a visão administrativa de todos os posts
func (s *ReportService) ListPosts(ctx context.Context, actor entities.Actor, query PostQuery) (entities.Page[*entities.Post], error) {
	if err := require(actor, entities.PermissionAdminViews); err != nil {
		return entities.Page[*entities.Post]{}, err
	}
	return s.pagePosts(ctx, query)
}

// ListUsers é a visão administrativa de todos os usuários, por username
func (s *ReportService) ListUsers(ctx context.Context, actor entities.Actor, query UserQuery) (entities.Page[*entities.User], error) {
	if err := require(actor, entities.PermissionAdminViews); err != nil {
		return entities.Page[*entities.User]{}, err
	}

	filters, err := query.filters()
	if err != nil {
		return entities.Page[*entities.User]{}, err
	}

	req := entities.PageRequest{Page: query.Page}.Normalize(s.pageSize)
	filters.Page = req.Page
	filters.PageSize = req.PageSize

	users, total, err := s.userRepo.List(ctx, filters)
	if err != nil {
		return entities.Page[*entities.User]{}, storageFailure(s.logger, "failed to list users", err)
	}
	return entities.NewPage(users, req, total), nil
}

// Report retorna a página filtrada e as métricas globais, que ignoram o filtro
func (s *ReportService) Report(ctx context.Context, actor entities.Actor, query PostQuery) (ReportResult, error) {
	if err := require(actor, entities.PermissionViewReports); err != nil {
		return ReportResult{}, err
	}

	posts, err := s.pagePosts(ctx, query)
	if err != nil {
		return ReportResult{}, err
	}

	metrics, err := s.statsRepo.Metrics(ctx)
	if err != nil {
		return ReportResult{}, storageFailure(s.logger, "failed to compute metrics", err)
	}

	return ReportResult{Posts: posts, Metrics: metrics}, nil
}

func (s *ReportService) pagePosts(ctx context.Context, query PostQuery) (entities.Page[*entities.Post], error) {
	req := entities.PageRequest{Page: query.Page}.Normalize(s.pageSize)
	filters := query.filters()
	filters.Page = req.Page
	filters.PageSize = req.PageSize

	posts, total, err := s.postRepo.List(ctx, filters)
	if err != nil {
		return entities.Page[*entities.Post]{}, storageFailure(s.logger, "failed to list posts", err)
	}
	return entities.NewPage(posts, req, total), nil
}

// Analytics agrega posts e atividade por dia UTC e o ranking dos 5 maiores autores
func (s *ReportService) Analytics(ctx context.Context, actor entities.Actor) (entities.Analytics, error) {
	if err := require(actor, entities.PermissionViewReports); err != nil {
		return entities.Analytics{}, err
	}

	stamps, err := s.statsRepo.PostStamps(ctx)
	if err != nil {
		return entities.Analytics{}, storageFailure(s.logger, "failed to load post timestamps", err)
	}

	all, approved, pending := newDaySeries(), newDaySeries(), newDaySeries()
	for _, stamp := range stamps {
		all.add(stamp.Timestamp)
		if stamp.IsApproved {
			approved.add(stamp.Timestamp)
		} else {
			pending.add(stamp.Timestamp)
		}
	}

	seen, err := s.statsRepo.LastSeenStamps(ctx)
	if err != nil {
		return entities.Analytics{}, storageFailure(s.logger, "failed to load activity", err)
	}
	active := newDaySeries()
	for _, at := range seen {
		active.add(at)
	}

	top, err := s.statsRepo.TopPosters(ctx, TopPostersLimit)
	if err != nil {
		return entities.Analytics{}, storageFailure(s.logger, "failed to rank posters", err)
	}

	return entities.Analytics{
		PostsPerDay:       all.counts(),
		ApprovedPerDay:    approved.counts(),
		PendingPerDay:     pending.counts(),
		ActiveUsersPerDay: active.counts(),
		TopPosters:        top,
	}, nil
}

// daySeries conta ocorrências por dia preservando a ordem de chegada (entradas já ordenadas)
type daySeries struct {
	index map[string]int
	items []entities.DailyCount
}

func newDaySeries() *daySeries {
	return &daySeries{index: make(map[string]int)}
}

func (d *daySeries) add(at time.Time) {
	day := at.UTC().Format(dayLayout)
	if i, ok := d.index[day]; ok {
		d.items[i].Count++
		return
	}
	d.index[day] = len(d.items)
	d.items = append(d.items, entities.DailyCount{Day: day, Count: 1})
}

func (d *daySeries) counts() []entities.DailyCount {
	if d.items == nil {
		return []entities.DailyCount{}
	}
	return d.items
}

// ExportQuery reúne os filtros aceitos pelas duas exportações
type ExportQuery struct {
	Status   string
	Order    string
	Username string
	Role     string
}

// ExportCSV gera o CSV sem paginação e na mesma ordem da listagem correspondente.
// Vírgulas em texto livre viram espaço; não há aspas.
func (s *ReportService) ExportCSV(ctx context.Context, actor entities.Actor, kind ExportKind, query ExportQuery) ([]byte, error) {
	var (
		out []byte
		err error
	)

	switch kind {
	case ExportPosts:
		if err := require(actor, entities.PermissionViewReports); err != nil {
			return nil, err
		}
		out, err = s.exportPosts(ctx, query)
	case ExportUsers:
		if err := require(actor, entities.PermissionAdminViews); err != nil {
			return nil, err
		}
		out, err = s.exportUsers(ctx, query)
	default:
		return nil, domainerrors.ErrInvalidExport
	}
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ports.ActionReportExported)
	s.logger.Info("report exported", "kind", kind, "actor_id", actor.ID, "bytes", len(out))
	return out, nil
}

func (s *ReportService) exportPosts(ctx context.Context, query ExportQuery) ([]byte, error) {
	filters := PostQuery{Status: query.Status, Order: query.Order, Username: query.Username}.filters()

	posts, _, err := s.postRepo.List(ctx, filters)
	if err != nil {
		return nil, storageFailure(s.logger, "failed to list posts for export", err)
	}

	lines := make([]string, 0, len(posts)+1)
	lines = append(lines, strings.Join(postsCSVHeader, ","))
	for _, post := range posts {
		lines = append(lines, csvRow(
			strconv.FormatInt(post.ID, 10),
			post.Title,
			post.AuthorUsername,
			post.Status(),
			strconv.FormatInt(post.CommentCount, 10),
			post.Timestamp.UTC().Format(time.RFC3339),
		))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

func (s *ReportService) exportUsers(ctx context.Context, query ExportQuery) ([]byte, error) {
	filters, err := UserQuery{Username: query.Username, Role: query.Role}.filters()
	if err != nil {
		return nil, err
	}

	users, _, err := s.userRepo.List(ctx, filters)
	if err != nil {
		return nil, storageFailure(s.logger, "failed to list users for export", err)
	}

	ids := make([]int64, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	counts, err := s.statsRepo.PostCountsByAuthor(ctx, ids)
	if err != nil {
		return nil, storageFailure(s.logger, "failed to count posts for export", err)
	}

	lines := make([]string, 0, len(users)+1)
	lines = append(lines, strings.Join(usersCSVHeader, ","))
	for _, user := range users {
		lastSeen := ""
		if user.LastSeen != nil {
			lastSeen = user.LastSeen.UTC().Format(time.RFC3339)
		}
		lines = append(lines, csvRow(
			strconv.FormatInt(user.ID, 10),
			user.Username,
			user.Email.String(),
			string(user.Role),
			strconv.FormatInt(counts[user.ID], 10),
			lastSeen,
		))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

var csvNeutralizer = strings.NewReplacer(",", " ", "\r\n", " ", "\n", " ", "\r", " ")

func csvRow(fields ...string) string {
	for i, f := range fields {
		fields[i] = csvNeutralizer.Replace(f)
	}
	return strings.Join(fields, ",")
}
