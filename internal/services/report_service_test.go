package services_test

import (
	"math"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/services"
)

var _ = Describe("ReportService", func() {
	var (
		e                   *env
		root, ann, ana, bob *entities.User
	)

	BeforeEach(func() {
		e = newEnv()
		root = e.firstAdmin()
		ann = e.withRole("ann", entities.RoleAnalyst)
		ana = e.register("ana")
		bob = e.register("bob")
	})

	Describe("Report", func() {
		BeforeEach(func() {
			e.approved(ana, "first")
			e.post(ana, "second")
			_, err := e.posts.CreatePost(e.ctx, bob.Actor(), services.CreatePostInput{
				Title: "pic", Body: "b", Image: pngUpload("p.png", 4),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("métricas são globais e ignoram o filtro", func() {
			all, err := e.reports.Report(e.ctx, ann.Actor(), services.PostQuery{})
			Expect(err).NotTo(HaveOccurred())

			filtered, err := e.reports.Report(e.ctx, ann.Actor(), services.PostQuery{Status: "approved", Username: "ana"})
			Expect(err).NotTo(HaveOccurred())

			Expect(filtered.Metrics).To(Equal(all.Metrics))
			Expect(all.Metrics).To(Equal(entities.Metrics{
				TotalPosts: 3, PendingPosts: 2, TotalUsers: 4, PostsWithImage: 1,
			}))
			Expect(filtered.Posts.Total).To(Equal(int64(1)))
			Expect(all.Posts.Total).To(Equal(int64(3)))
		})

		It("status desconhecido equivale a all", func() {
			result, err := e.reports.Report(e.ctx, root.Actor(), services.PostQuery{Status: "whatever"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Posts.Total).To(Equal(int64(3)))
		})

		It("user comum não vê relatórios", func() {
			_, err := e.reports.Report(e.ctx, ana.Actor(), services.PostQuery{})
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
		})

		It("página muito além da última volta vazia", func() {
			page, err := e.reports.ListPosts(e.ctx, root.Actor(), services.PostQuery{Page: math.MaxInt64/2 + 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(BeEmpty())
			Expect(page.Total).To(Equal(int64(3)))
			Expect(page.HasNext).To(BeFalse())
			Expect(page.HasPrev).To(BeTrue())
		})

		It("ListPosts exige visões administrativas", func() {
			_, err := e.reports.ListPosts(e.ctx, ann.Actor(), services.PostQuery{})
			Expect(err).To(MatchError(domainerrors.ErrForbidden))

			page, err := e.reports.ListPosts(e.ctx, root.Actor(), services.PostQuery{Order: "title_asc"})
			Expect(err).NotTo(HaveOccurred())
			titles := make([]string, 0, len(page.Items))
			for _, p := range page.Items {
				titles = append(titles, p.Title)
			}
			Expect(titles).To(Equal([]string{"first", "pic", "second"}))
		})
	})

	Describe("ListUsers", func() {
		It("ordena por username e filtra por papel", func() {
			page, err := e.reports.ListUsers(e.ctx, root.Actor(), services.UserQuery{})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(int64(4)))
			Expect(page.Items[0].Username).To(Equal("ana"))

			analysts, err := e.reports.ListUsers(e.ctx, root.Actor(), services.UserQuery{Role: "analyst"})
			Expect(err).NotTo(HaveOccurred())
			Expect(analysts.Items).To(HaveLen(1))
			Expect(analysts.Items[0].ID).To(Equal(ann.ID))
		})

		It("papel inválido é erro de validação", func() {
			_, err := e.reports.ListUsers(e.ctx, root.Actor(), services.UserQuery{Role: "owner"})
			Expect(err).To(MatchError(domainerrors.ErrInvalidRole))
		})

		It("analyst não lista usuários", func() {
			_, err := e.reports.ListUsers(e.ctx, ann.Actor(), services.UserQuery{})
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
		})
	})

	Describe("Analytics", func() {
		It("agrega por dia e ranqueia autores", func() {
			e.approved(ana, "a1")
			e.post(ana, "a2")
			e.post(bob, "b1")
			Expect(e.users.TouchLastSeen(e.ctx, bob.ID)).To(Succeed())

			analytics, err := e.reports.Analytics(e.ctx, ann.Actor())
			Expect(err).NotTo(HaveOccurred())

			Expect(analytics.PostsPerDay).To(Equal([]entities.DailyCount{{Day: "2026-05-10", Count: 3}}))
			Expect(analytics.ApprovedPerDay).To(Equal([]entities.DailyCount{{Day: "2026-05-10", Count: 1}}))
			Expect(analytics.PendingPerDay).To(Equal([]entities.DailyCount{{Day: "2026-05-10", Count: 2}}))
			Expect(analytics.ActiveUsersPerDay).To(Equal([]entities.DailyCount{{Day: "2026-05-10", Count: 1}}))
			Expect(analytics.TopPosters).To(Equal([]entities.PosterCount{
				{UserID: ana.ID, Username: "ana", PostCount: 2},
				{UserID: bob.ID, Username: "bob", PostCount: 1},
			}))
		})

		It("sem dados devolve séries vazias", func() {
			analytics, err := e.reports.Analytics(e.ctx, root.Actor())
			Expect(err).NotTo(HaveOccurred())
			Expect(analytics.PostsPerDay).To(BeEmpty())
			Expect(analytics.PostsPerDay).NotTo(BeNil())
			Expect(analytics.TopPosters).To(BeEmpty())
		})
	})

	Describe("ExportCSV", func() {
		It("exporta posts sem paginação, neutralizando vírgulas", func() {
			e.approved(ana, "hello, world")
			for i := 0; i < 4; i++ {
				e.post(bob, "draft")
			}

			out, err := e.reports.ExportCSV(e.ctx, ann.Actor(), services.ExportPosts, services.ExportQuery{Order: "timestamp_asc"})
			Expect(err).NotTo(HaveOccurred())

			lines := strings.Split(string(out), "\n")
			Expect(lines).To(HaveLen(6))
			Expect(lines[0]).To(Equal("Post ID,Title,Author,Status,Comments,Timestamp"))

			fields := strings.Split(lines[1], ",")
			Expect(fields).To(HaveLen(6))
			Expect(fields[1]).To(Equal("hello  world"))
			Expect(fields[2]).To(Equal("ana"))
			Expect(fields[3]).To(Equal("Approved"))
			Expect(fields[4]).To(Equal("0"))
			_, err = time.Parse(time.RFC3339, fields[5])
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Split(lines[2], ",")[3]).To(Equal("Pending"))
		})

		It("respeita o filtro de status", func() {
			e.approved(ana, "ok")
			e.post(bob, "draft")

			out, err := e.reports.ExportCSV(e.ctx, root.Actor(), services.ExportPosts, services.ExportQuery{Status: "pending"})
			Expect(err).NotTo(HaveOccurred())
			lines := strings.Split(string(out), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[1]).To(ContainSubstring(",draft,bob,Pending,"))
		})

		It("exporta usuários apenas para admin", func() {
			e.post(ana, "p")
			Expect(e.users.TouchLastSeen(e.ctx, ana.ID)).To(Succeed())

			_, err := e.reports.ExportCSV(e.ctx, ann.Actor(), services.ExportUsers, services.ExportQuery{})
			Expect(err).To(MatchError(domainerrors.ErrForbidden))

			out, err := e.reports.ExportCSV(e.ctx, root.Actor(), services.ExportUsers, services.ExportQuery{})
			Expect(err).NotTo(HaveOccurred())

			lines := strings.Split(string(out), "\n")
			Expect(lines).To(HaveLen(5))
			Expect(lines[0]).To(Equal("User ID,Username,Email,Role,Posts,Last Seen"))

			fields := strings.Split(lines[1], ",")
			Expect(fields[1:5]).To(Equal([]string{"ana", "ana@example.com", "user", "1"}))
			_, err = time.Parse(time.RFC3339, fields[5])
			Expect(err).NotTo(HaveOccurred())
			Expect(lines[2]).To(HaveSuffix(",ann,ann@example.com,analyst,0,"))
		})

		It("tipo desconhecido é rejeitado", func() {
			_, err := e.reports.ExportCSV(e.ctx, root.Actor(), services.ExportKind("comments"), services.ExportQuery{})
			Expect(err).To(MatchError(domainerrors.ErrInvalidExport))
		})

		It("user comum não exporta", func() {
			_, err := e.reports.ExportCSV(e.ctx, bob.Actor(), services.ExportPosts, services.ExportQuery{})
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
		})
	})
})
