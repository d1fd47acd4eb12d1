package services_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/services"
)

var _ = Describe("UserService", func() {
	var e *env

	BeforeEach(func() {
		e = newEnv()
	})

	Describe("Register", func() {
		It("cria a conta com papel user e senha em hash", func() {
			user := e.register("ana")
			Expect(user.ID).NotTo(BeZero())
			Expect(user.Role).To(Equal(entities.RoleUser))
			Expect(user.PasswordHash).NotTo(Equal("secret123"))
		})

		It("recusa username repetido", func() {
			e.register("ana")
			_, err := e.users.Register(e.ctx, services.RegisterInput{Username: "ana", Email: "other@example.com", Password: "secret123"})
			Expect(err).To(MatchError(domainerrors.ErrUsernameTaken))
			Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindConflict))
		})

		It("recusa email repetido", func() {
			e.register("ana")
			_, err := e.users.Register(e.ctx, services.RegisterInput{Username: "bob", Email: "ANA@example.com", Password: "secret123"})
			Expect(err).To(MatchError(domainerrors.ErrEmailAlreadyExists))
		})

		Context("quando outro cadastro vence a corrida no índice único", func() {
			var racing *services.UserService

			BeforeEach(func() {
				e.register("ana")
				deps := e.userDeps
				deps.Users = &racingUsers{UserRepository: e.userDeps.Users}
				racing = services.NewUserService(deps)
			})

			It("aponta o email quando o conflito é no email", func() {
				_, err := racing.Register(e.ctx, services.RegisterInput{Username: "bob", Email: "ana@example.com", Password: "secret123"})
				Expect(err).To(MatchError(domainerrors.ErrEmailAlreadyExists))
				Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindConflict))
			})

			It("aponta o username quando o conflito é no username", func() {
				_, err := racing.Register(e.ctx, services.RegisterInput{Username: "ana", Email: "new@example.com", Password: "secret123"})
				Expect(err).To(MatchError(domainerrors.ErrUsernameTaken))
			})
		})

		DescribeTable("valida a entrada",
			func(username, email, password string, want error) {
				_, err := e.users.Register(e.ctx, services.RegisterInput{Username: username, Email: email, Password: password})
				Expect(err).To(MatchError(want))
			},
			Entry("username curto", "ab", "ab@example.com", "secret123", domainerrors.ErrInvalidUsername),
			Entry("email inválido", "carol", "carol", "secret123", domainerrors.ErrInvalidEmail),
			Entry("senha curta", "carol", "carol@example.com", "123", domainerrors.ErrInvalidPassword),
		)
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			e.register("ana")
		})

		It("aceita a senha correta", func() {
			user, err := e.users.Authenticate(e.ctx, "ana", "secret123")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Username).To(Equal("ana"))
		})

		It("não distingue senha errada de usuário inexistente", func() {
			_, errWrong := e.users.Authenticate(e.ctx, "ana", "wrong-pass")
			_, errMissing := e.users.Authenticate(e.ctx, "nobody", "secret123")
			Expect(errWrong).To(MatchError(domainerrors.ErrInvalidCredentials))
			Expect(errMissing).To(MatchError(domainerrors.ErrInvalidCredentials))
		})
	})

	Describe("CreateUser", func() {
		It("admin cria conta com qualquer papel", func() {
			root := e.firstAdmin()
			user, err := e.users.CreateUser(e.ctx, root.Actor(), services.CreateUserInput{
				Username: "ann", Email: "ann@example.com", Password: "secret123", Role: "analyst",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(entities.RoleAnalyst))
		})

		It("usuário comum não pode criar contas", func() {
			ana := e.register("ana")
			_, err := e.users.CreateUser(e.ctx, ana.Actor(), services.CreateUserInput{
				Username: "x1x", Email: "x@example.com", Password: "secret123", Role: "user",
			})
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
		})

		It("recusa papel desconhecido", func() {
			root := e.firstAdmin()
			_, err := e.users.CreateUser(e.ctx, root.Actor(), services.CreateUserInput{
				Username: "x1x", Email: "x@example.com", Password: "secret123", Role: "superuser",
			})
			Expect(err).To(MatchError(domainerrors.ErrInvalidRole))
		})
	})

	Describe("UpdateProfile", func() {
		It("altera username e limpa about_me vazio", func() {
			ana := e.register("ana")
			about := "hello"
			_, err := e.users.UpdateProfile(e.ctx, ana.Actor(), services.UpdateProfileInput{AboutMe: &about})
			Expect(err).NotTo(HaveOccurred())

			name, empty := "anna", "  "
			user, err := e.users.UpdateProfile(e.ctx, ana.Actor(), services.UpdateProfileInput{Username: &name, AboutMe: &empty})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Username).To(Equal("anna"))
			Expect(user.AboutMe).To(BeNil())
		})

		It("recusa username de outra conta", func() {
			ana := e.register("ana")
			e.register("bob")
			name := "bob"
			_, err := e.users.UpdateProfile(e.ctx, ana.Actor(), services.UpdateProfileInput{Username: &name})
			Expect(err).To(MatchError(domainerrors.ErrUsernameTaken))
		})
	})

	Describe("ChangeRole", func() {
		It("o admin original não pode ser rebaixado", func() {
			root := e.firstAdmin()
			other := e.withRole("second", entities.RoleAdmin)

			_, err := e.users.ChangeRole(e.ctx, other.Actor(), root.ID, "user")
			Expect(err).To(MatchError(domainerrors.ErrProtectedAdmin))
		})

		It("analyst não altera papéis", func() {
			ann := e.withRole("ann", entities.RoleAnalyst)
			bob := e.register("bob")
			_, err := e.users.ChangeRole(e.ctx, ann.Actor(), bob.ID, "admin")
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
		})
	})

	Describe("DeleteUser", func() {
		var root *entities.User

		BeforeEach(func() {
			root = e.firstAdmin()
		})

		It("remove a conta com posts, imagens e arestas", func() {
			ana := e.register("ana")
			bob := e.register("bob")

			post, err := e.posts.CreatePost(e.ctx, ana.Actor(), services.CreatePostInput{
				Title: "pic", Body: "with image", Image: pngUpload("photo.png", 16),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.blobs.Has(*post.Image)).To(BeTrue())
			Expect(e.social.Follow(e.ctx, bob.Actor(), ana.ID)).To(Succeed())
			// contagem fica em cache antes da remoção
			Expect(e.social.FollowingCount(e.ctx, bob.ID)).To(Equal(int64(1)))

			Expect(e.users.DeleteUser(e.ctx, root.Actor(), ana.ID)).To(Succeed())

			_, err = e.users.GetUser(e.ctx, ana.ID)
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
			Expect(e.blobs.Has(*post.Image)).To(BeFalse())

			following, err := e.social.FollowingCount(e.ctx, bob.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(following).To(BeZero())
		})

		It("recusa remover a si mesmo", func() {
			Expect(e.users.DeleteUser(e.ctx, root.Actor(), root.ID)).To(MatchError(domainerrors.ErrSelfDelete))
		})

		It("recusa remover o admin original", func() {
			other := e.withRole("second", entities.RoleAdmin)
			Expect(e.users.DeleteUser(e.ctx, other.Actor(), root.ID)).To(MatchError(domainerrors.ErrProtectedAdmin))
		})

		It("conta inexistente é not found", func() {
			Expect(e.users.DeleteUser(e.ctx, root.Actor(), 9999)).To(MatchError(domainerrors.ErrUserNotFound))
		})

		It("exige permissão de gestão", func() {
			ana := e.register("ana")
			bob := e.register("bob")
			Expect(e.users.DeleteUser(e.ctx, ana.Actor(), bob.ID)).To(MatchError(domainerrors.ErrForbidden))
		})
	})

	Describe("EnsureAdmin", func() {
		It("cria uma vez e depois reaproveita", func() {
			first, created, err := e.users.EnsureAdmin(e.ctx, "root", "root@example.com", "secret123")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())

			again, created, err := e.users.EnsureAdmin(e.ctx, "root", "root@example.com", "secret123")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeFalse())
			Expect(again.ID).To(Equal(first.ID))
		})

		It("promove uma conta existente", func() {
			ana := e.register("ana")
			user, created, err := e.users.EnsureAdmin(e.ctx, "ana", "ana@example.com", "ignored1")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeFalse())
			Expect(user.ID).To(Equal(ana.ID))
			Expect(user.Role).To(Equal(entities.RoleAdmin))
		})
	})
})
