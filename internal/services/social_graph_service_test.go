package services_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
)

var _ = Describe("SocialGraphService", func() {
	var (
		e        *env
		ana, bob *entities.User
	)

	BeforeEach(func() {
		e = newEnv()
		ana = e.register("ana")
		bob = e.register("bob")
	})

	Describe("Follow", func() {
		It("é idempotente", func() {
			Expect(e.social.Follow(e.ctx, ana.Actor(), bob.ID)).To(Succeed())
			Expect(e.social.Follow(e.ctx, ana.Actor(), bob.ID)).To(Succeed())

			Expect(e.social.FollowersCount(e.ctx, bob.ID)).To(Equal(int64(1)))
			Expect(e.social.FollowingCount(e.ctx, ana.ID)).To(Equal(int64(1)))
			Expect(e.social.IsFollowing(e.ctx, ana.ID, bob.ID)).To(BeTrue())
			Expect(e.social.IsFollowing(e.ctx, bob.ID, ana.ID)).To(BeFalse())
		})

		It("recusa seguir a si mesmo", func() {
			err := e.social.Follow(e.ctx, ana.Actor(), ana.ID)
			Expect(err).To(MatchError(domainerrors.ErrSelfFollow))
			Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindSelfReference))
		})

		It("alvo inexistente é not found", func() {
			Expect(e.social.Follow(e.ctx, ana.Actor(), 9999)).To(MatchError(domainerrors.ErrUserNotFound))
		})

		It("anônimo não segue ninguém", func() {
			Expect(e.social.Follow(e.ctx, entities.Actor{}, bob.ID)).To(MatchError(domainerrors.ErrForbidden))
		})

		It("invalida as contagens em cache", func() {
			Expect(e.social.FollowersCount(e.ctx, bob.ID)).To(BeZero())
			Expect(e.social.Follow(e.ctx, ana.Actor(), bob.ID)).To(Succeed())

			Expect(e.cache.Invalidated()).To(ContainElements(
				fmt.Sprintf("followers:%d", bob.ID),
				fmt.Sprintf("following:%d", ana.ID),
			))
			Expect(e.social.FollowersCount(e.ctx, bob.ID)).To(Equal(int64(1)))
		})

		It("contagem lida antes de um follow concorrente não volta ao cache", func() {
			key := fmt.Sprintf("followers:%d", bob.ID)
			// o follow commita entre a consulta ao banco e a gravação no cache
			e.cache.beforeSet = func() {
				Expect(e.social.Follow(e.ctx, ana.Actor(), bob.ID)).To(Succeed())
			}

			Expect(e.social.FollowersCount(e.ctx, bob.ID)).To(BeZero())
			_, cached := e.cache.Cached(key)
			Expect(cached).To(BeFalse())

			Expect(e.social.FollowersCount(e.ctx, bob.ID)).To(Equal(int64(1)))
			value, cached := e.cache.Cached(key)
			Expect(cached).To(BeTrue())
			Expect(value).To(Equal(int64(1)))
		})
	})

	Describe("Unfollow", func() {
		It("remove a aresta e tolera repetição", func() {
			Expect(e.social.Follow(e.ctx, ana.Actor(), bob.ID)).To(Succeed())
			Expect(e.social.Unfollow(e.ctx, ana.Actor(), bob.ID)).To(Succeed())
			Expect(e.social.Unfollow(e.ctx, ana.Actor(), bob.ID)).To(Succeed())

			Expect(e.social.FollowersCount(e.ctx, bob.ID)).To(BeZero())
		})

		It("recusa a si mesmo", func() {
			Expect(e.social.Unfollow(e.ctx, ana.Actor(), ana.ID)).To(MatchError(domainerrors.ErrSelfFollow))
		})
	})

	Describe("Followers e Following", func() {
		It("lista as duas direções paginadas", func() {
			carol := e.register("carol")
			Expect(e.social.Follow(e.ctx, bob.Actor(), ana.ID)).To(Succeed())
			Expect(e.social.Follow(e.ctx, carol.Actor(), ana.ID)).To(Succeed())

			page, err := e.social.Followers(e.ctx, ana.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(int64(2)))
			Expect(page.Items).To(HaveLen(2))

			following, err := e.social.Following(e.ctx, carol.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(following.Items).To(HaveLen(1))
			Expect(following.Items[0].Username).To(Equal("ana"))
		})
	})

	Describe("Feed", func() {
		It("mostra aprovados próprios e de quem segue, mais novos primeiro", func() {
			carol := e.register("carol")
			own := e.approved(ana, "own")
			fromBob := e.approved(bob, "bob says")
			e.post(bob, "bob pending")
			e.approved(carol, "not followed")

			Expect(e.social.Follow(e.ctx, ana.Actor(), bob.ID)).To(Succeed())

			page, err := e.social.Feed(e.ctx, ana.Actor(), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(page.Items)).To(Equal([]int64{fromBob.ID, own.ID}))
			for _, p := range page.Items {
				Expect(p.IsApproved).To(BeTrue())
			}
		})

		It("sem follows contém só os próprios posts", func() {
			own := e.approved(ana, "alone")
			e.approved(bob, "elsewhere")

			page, err := e.social.Feed(e.ctx, ana.Actor(), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(page.Items)).To(Equal([]int64{own.ID}))
		})

		It("pagina com navegação", func() {
			for i := 0; i < 4; i++ {
				e.approved(ana, fmt.Sprintf("post %d", i))
			}

			first, err := e.social.Feed(e.ctx, ana.Actor(), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Items).To(HaveLen(3))
			Expect(first.HasNext).To(BeTrue())
			Expect(first.HasPrev).To(BeFalse())

			second, err := e.social.Feed(e.ctx, ana.Actor(), 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Items).To(HaveLen(1))
			Expect(second.HasNext).To(BeFalse())

			beyond, err := e.social.Feed(e.ctx, ana.Actor(), 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(beyond.Items).To(BeEmpty())
		})

		It("exige autenticação", func() {
			_, err := e.social.Feed(e.ctx, entities.Actor{}, 1)
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
		})
	})
})
