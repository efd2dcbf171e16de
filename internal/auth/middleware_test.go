package auth

import (
	"net/http"
	"net/http/httptest"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/powergrid-it/helpdesk-service/internal/domain"
	apperrors "github.com/powergrid-it/helpdesk-service/pkg/util"
)

var _ = Describe("AuthMiddleware", func() {
	var (
		manager     *TokenManager
		repo        *stubUserRepo
		revocations *stubRevocations
		app         *fiber.App
		handlerRuns int
	)

	newApp := func(middleware *AuthMiddleware) *fiber.App {
		instance := fiber.New(fiber.Config{
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				domainErr := apperrors.ToDomainError(err)
				return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
					"error": fiber.Map{"code": domainErr.Code, "message": domainErr.Message},
				})
			},
		})
		instance.Get("/protected", middleware.Handle, func(c *fiber.Ctx) error {
			handlerRuns++
			user, ok := UserFromContext(c)
			Expect(ok).To(BeTrue())
			return c.JSON(fiber.Map{"id": user.ID})
		})
		instance.Delete("/admin", middleware.Handle, RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
			return c.SendStatus(http.StatusNoContent)
		})
		return instance
	}

	request := func(header string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	BeforeEach(func() {
		manager = NewTokenManager("unit-test-secret", 15)
		repo = &stubUserRepo{users: map[string]*domain.User{
			"user-1":  {ID: "user-1", Name: "Amina", Role: domain.RoleEmployee},
			"admin-1": {ID: "admin-1", Name: "Root", Role: domain.RoleAdmin},
		}}
		revocations = &stubRevocations{revoked: map[string]bool{}}
		app = newApp(NewAuthMiddleware(manager, repo, revocations))
		handlerRuns = 0
	})

	It("rejects a request without an authorization header", func() {
		resp := request("")
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(handlerRuns).To(BeZero())
	})

	It("rejects a non-bearer scheme", func() {
		resp := request("Basic dXNlcjpwYXNz")
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(handlerRuns).To(BeZero())
	})

	It("rejects a garbage token", func() {
		resp := request("Bearer not.a.token")
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(handlerRuns).To(BeZero())
	})

	It("rejects a valid token whose user no longer exists", func() {
		token, _, err := manager.GenerateToken("deleted-user")
		Expect(err).NotTo(HaveOccurred())

		resp := request("Bearer " + token)
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(handlerRuns).To(BeZero())
	})

	It("rejects a revoked token", func() {
		token, _, err := manager.GenerateToken("user-1")
		Expect(err).NotTo(HaveOccurred())
		claims, err := manager.ParseToken(token)
		Expect(err).NotTo(HaveOccurred())
		revocations.revoked[claims.ID] = true

		resp := request("Bearer " + token)
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(handlerRuns).To(BeZero())
	})

	It("rejects when the revocation check itself fails", func() {
		revocations.err = fiber.ErrServiceUnavailable
		token, _, err := manager.GenerateToken("user-1")
		Expect(err).NotTo(HaveOccurred())

		resp := request("Bearer " + token)
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(handlerRuns).To(BeZero())
	})

	It("admits a valid token and loads the principal", func() {
		token, _, err := manager.GenerateToken("user-1")
		Expect(err).NotTo(HaveOccurred())

		resp := request("Bearer " + token)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(handlerRuns).To(Equal(1))
	})

	Describe("RequireRole", func() {
		adminRequest := func(userID string) *http.Response {
			token, _, err := manager.GenerateToken(userID)
			Expect(err).NotTo(HaveOccurred())
			req := httptest.NewRequest(http.MethodDelete, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			return resp
		}

		It("forbids a role outside the allowed set", func() {
			Expect(adminRequest("user-1").StatusCode).To(Equal(http.StatusForbidden))
		})

		It("admits an allowed role", func() {
			Expect(adminRequest("admin-1").StatusCode).To(Equal(http.StatusNoContent))
		})
	})
})
