package services_test

import (
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/domain/ports"
	"github.com/rafabene/avantpro-social/internal/services"
)

var _ = Describe("PostService", func() {
	var (
		e        *env
		ana, bob *entities.User
	)

	BeforeEach(func() {
		e = newEnv()
		ana = e.register("ana")
		bob = e.register("bob")
	})

	Describe("CreatePost", func() {
		It("post de usuário comum nasce pendente e avisa os moderadores", func() {
			post := e.post(ana, "hello")
			Expect(post.IsApproved).To(BeFalse())
			Expect(post.AuthorUsername).To(Equal("ana"))
			Expect(e.events.Types()).To(Equal([]string{ports.EventPostPending}))
		})

		It("post de admin nasce aprovado", func() {
			root := e.firstAdmin()
			post := e.post(root, "announcement")
			Expect(post.IsApproved).To(BeTrue())
			Expect(e.events.Types()).To(BeEmpty())
		})

		It("guarda a imagem com chave uuid e a mesma extensão", func() {
			post, err := e.posts.CreatePost(e.ctx, ana.Actor(), services.CreatePostInput{
				Title: "pic", Body: "look", Image: pngUpload("Holiday.PNG", 32),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(post.HasImage()).To(BeTrue())
			Expect(filepath.Ext(*post.Image)).To(Equal(".png"))
			Expect(*post.Image).NotTo(ContainSubstring("Holiday"))
			Expect(e.blobs.Has(*post.Image)).To(BeTrue())
		})

		DescribeTable("recusa imagens inválidas",
			func(upload *services.ImageUpload) {
				_, err := e.posts.CreatePost(e.ctx, ana.Actor(), services.CreatePostInput{Title: "t", Body: "b", Image: upload})
				Expect(err).To(MatchError(domainerrors.ErrInvalidImage))
				Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindValidation))
			},
			Entry("extensão não suportada", pngUpload("doc.pdf", 10)),
			Entry("arquivo vazio", pngUpload("empty.png", 0)),
			Entry("acima de 5 MiB", &services.ImageUpload{Filename: "big.png", Size: services.MaxImageSize + 1, Content: strings.NewReader("x")}),
		)

		It("valida título e corpo", func() {
			_, err := e.posts.CreatePost(e.ctx, ana.Actor(), services.CreatePostInput{Title: "  ", Body: "b"})
			Expect(err).To(MatchError(domainerrors.ErrInvalidTitle))

			_, err = e.posts.CreatePost(e.ctx, ana.Actor(), services.CreatePostInput{Title: "t", Body: strings.Repeat("x", 501)})
			Expect(err).To(MatchError(domainerrors.ErrInvalidBody))
		})

		It("anônimo não publica", func() {
			_, err := e.posts.CreatePost(e.ctx, entities.Actor{}, services.CreatePostInput{Title: "t", Body: "b"})
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
		})
	})

	Describe("GetPost", func() {
		var pending *entities.Post

		BeforeEach(func() {
			pending = e.post(ana, "draft")
		})

		It("pendente é visível ao autor e ao moderador", func() {
			Expect(e.posts.GetPost(e.ctx, ana.Actor(), pending.ID)).NotTo(BeNil())
			Expect(e.posts.GetPost(e.ctx, e.firstAdmin().Actor(), pending.ID)).NotTo(BeNil())
		})

		It("pendente é not found para os demais", func() {
			_, err := e.posts.GetPost(e.ctx, bob.Actor(), pending.ID)
			Expect(err).To(MatchError(domainerrors.ErrPostNotFound))

			_, err = e.posts.GetPost(e.ctx, entities.Actor{}, pending.ID)
			Expect(err).To(MatchError(domainerrors.ErrPostNotFound))
		})
	})

	Describe("EditPost", func() {
		It("autor edita sem mudar aprovação", func() {
			post := e.approved(ana, "v1")
			edited, err := e.posts.EditPost(e.ctx, ana.Actor(), post.ID, "v2", "new body")
			Expect(err).NotTo(HaveOccurred())
			Expect(edited.Title).To(Equal("v2"))
			Expect(edited.IsApproved).To(BeTrue())
		})

		It("outro usuário não edita", func() {
			post := e.post(ana, "mine")
			_, err := e.posts.EditPost(e.ctx, bob.Actor(), post.ID, "hijack", "x")
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
		})

		It("post inexistente é not found", func() {
			_, err := e.posts.EditPost(e.ctx, ana.Actor(), 9999, "t", "b")
			Expect(err).To(MatchError(domainerrors.ErrPostNotFound))
		})
	})

	Describe("Comentários", func() {
		It("comenta e lista do mais antigo para o mais novo", func() {
			post := e.approved(ana, "topic")
			first, err := e.posts.AddComment(e.ctx, bob.Actor(), post.ID, "first!")
			Expect(err).NotTo(HaveOccurred())
			Expect(first.AuthorUsername).To(Equal("bob"))
			_, err = e.posts.AddComment(e.ctx, ana.Actor(), post.ID, "thanks")
			Expect(err).NotTo(HaveOccurred())

			page, err := e.posts.Comments(e.ctx, entities.Actor{}, post.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(int64(2)))
			Expect(page.Items[0].ID).To(Equal(first.ID))

			got, err := e.posts.GetPost(e.ctx, entities.Actor{}, post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.CommentCount).To(Equal(int64(2)))
		})

		It("não comenta post pendente de outro", func() {
			post := e.post(ana, "hidden")
			_, err := e.posts.AddComment(e.ctx, bob.Actor(), post.ID, "hi")
			Expect(err).To(MatchError(domainerrors.ErrPostNotFound))
		})

		It("valida o corpo", func() {
			post := e.approved(ana, "topic")
			_, err := e.posts.AddComment(e.ctx, bob.Actor(), post.ID, strings.Repeat("c", 201))
			Expect(err).To(MatchError(domainerrors.ErrInvalidBody))
		})
	})

	Describe("Explore e Search", func() {
		BeforeEach(func() {
			e.approved(ana, "Golang tips")
			e.approved(bob, "Cooking")
			e.post(bob, "golang draft")
		})

		It("explore lista só aprovados", func() {
			page, err := e.posts.Explore(e.ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(int64(2)))
		})

		It("busca sem diferenciar caixa e ignora pendentes", func() {
			page, err := e.posts.Search(e.ctx, ana.Actor(), "GOLANG", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(int64(1)))
			Expect(page.Items[0].Title).To(Equal("Golang tips"))
		})

		It("busca vazia retorna página vazia", func() {
			page, err := e.posts.Search(e.ctx, ana.Actor(), "   ", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(BeEmpty())
			Expect(page.Total).To(BeZero())
		})
	})

	Describe("UserPosts", func() {
		It("o dono também vê os pendentes", func() {
			e.approved(bob, "public")
			e.post(bob, "private draft")

			own, err := e.posts.UserPosts(e.ctx, bob.Actor(), "bob", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(own.Total).To(Equal(int64(2)))

			other, err := e.posts.UserPosts(e.ctx, ana.Actor(), "bob", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(other.Total).To(Equal(int64(1)))
		})

		It("usuário inexistente é not found", func() {
			_, err := e.posts.UserPosts(e.ctx, ana.Actor(), "ghost", 1)
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})
})
