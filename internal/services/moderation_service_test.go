package services_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/domain/ports"
	"github.com/rafabene/avantpro-social/internal/services"
)

var _ = Describe("ModerationService", func() {
	var (
		e              *env
		root, ana, bob *entities.User
	)

	BeforeEach(func() {
		e = newEnv()
		root = e.firstAdmin()
		ana = e.register("ana")
		bob = e.register("bob")
	})

	Describe("ApprovePost", func() {
		It("aprova uma vez; repetir não publica de novo", func() {
			post := e.post(ana, "draft")
			Expect(e.moderation.ApprovePost(e.ctx, root.Actor(), post.ID)).To(Succeed())
			Expect(e.moderation.ApprovePost(e.ctx, root.Actor(), post.ID)).To(Succeed())

			got, err := e.posts.GetPost(e.ctx, bob.Actor(), post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsApproved).To(BeTrue())
			Expect(e.events.Types()).To(Equal([]string{ports.EventPostPending, ports.EventPostApproved}))
		})

		It("post inexistente é no-op", func() {
			Expect(e.moderation.ApprovePost(e.ctx, root.Actor(), 9999)).To(Succeed())
		})

		It("analyst e user não aprovam", func() {
			post := e.post(ana, "draft")
			ann := e.withRole("ann", entities.RoleAnalyst)
			Expect(e.moderation.ApprovePost(e.ctx, ann.Actor(), post.ID)).To(MatchError(domainerrors.ErrForbidden))
			Expect(e.moderation.ApprovePost(e.ctx, bob.Actor(), post.ID)).To(MatchError(domainerrors.ErrForbidden))
		})
	})

	Describe("DeletePost", func() {
		It("remove post, comentários e imagem", func() {
			post, err := e.posts.CreatePost(e.ctx, ana.Actor(), services.CreatePostInput{
				Title: "pic", Body: "b", Image: pngUpload("a.gif", 8),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(e.moderation.DeletePost(e.ctx, root.Actor(), post.ID)).To(Succeed())

			_, err = e.posts.GetPost(e.ctx, root.Actor(), post.ID)
			Expect(err).To(MatchError(domainerrors.ErrPostNotFound))
			Expect(e.blobs.Has(*post.Image)).To(BeFalse())
			Expect(e.events.Types()).To(ContainElement(ports.EventPostDeleted))
		})

		It("post inexistente é no-op", func() {
			Expect(e.moderation.DeletePost(e.ctx, root.Actor(), 9999)).To(Succeed())
		})

		It("autor remove o próprio post pendente", func() {
			post := e.post(ana, "oops")
			Expect(e.moderation.DeletePostByAuthor(e.ctx, ana.Actor(), post.ID)).To(Succeed())
		})

		It("outro usuário não remove", func() {
			post := e.approved(ana, "keep")
			Expect(e.moderation.DeletePostByAuthor(e.ctx, bob.Actor(), post.ID)).To(MatchError(domainerrors.ErrForbidden))
			Expect(e.moderation.DeletePost(e.ctx, bob.Actor(), post.ID)).To(MatchError(domainerrors.ErrForbidden))

			_, err := e.posts.GetPost(e.ctx, bob.Actor(), post.ID)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("DeleteComment", func() {
		var comment *entities.Comment

		BeforeEach(func() {
			post := e.approved(ana, "topic")
			var err error
			comment, err = e.posts.AddComment(e.ctx, bob.Actor(), post.ID, "spam")
			Expect(err).NotTo(HaveOccurred())
		})

		It("moderador remove qualquer comentário", func() {
			Expect(e.moderation.DeleteComment(e.ctx, root.Actor(), comment.ID)).To(Succeed())
			Expect(e.moderation.DeleteComment(e.ctx, root.Actor(), comment.ID)).To(Succeed())
		})

		It("autor remove o próprio; outros não", func() {
			Expect(e.moderation.DeleteCommentByAuthor(e.ctx, ana.Actor(), comment.ID)).To(MatchError(domainerrors.ErrForbidden))
			Expect(e.moderation.DeleteCommentByAuthor(e.ctx, bob.Actor(), comment.ID)).To(Succeed())
		})
	})

	Describe("PendingQueue", func() {
		It("lista pendentes com totais de usuários", func() {
			e.post(ana, "p1")
			e.post(bob, "p2")
			e.approved(bob, "ok")
			Expect(e.users.TouchLastSeen(e.ctx, ana.ID)).To(Succeed())

			dashboard, err := e.moderation.PendingQueue(e.ctx, root.Actor(), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(dashboard.Pending.Total).To(Equal(int64(2)))
			Expect(dashboard.TotalUsers).To(Equal(int64(3)))
			Expect(dashboard.ActiveToday).To(Equal(int64(1)))
		})

		It("analyst não acessa", func() {
			ann := e.withRole("ann", entities.RoleAnalyst)
			_, err := e.moderation.PendingQueue(e.ctx, ann.Actor(), 1)
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
		})
	})
})
