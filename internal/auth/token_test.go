package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TokenManager", func() {
	var manager *TokenManager

	BeforeEach(func() {
		manager = NewTokenManager("unit-test-secret", 15)
	})

	It("round-trips a generated token", func() {
		token, exp, err := manager.GenerateToken("user-42")
		Expect(err).NotTo(HaveOccurred())
		Expect(exp).To(BeTemporally("~", time.Now().Add(15*time.Minute), time.Minute))

		claims, err := manager.ParseToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.Subject).To(Equal("user-42"))
		Expect(claims.ID).NotTo(BeEmpty())
	})

	It("issues distinct token ids for successive tokens", func() {
		first, _, err := manager.GenerateToken("user-42")
		Expect(err).NotTo(HaveOccurred())
		second, _, err := manager.GenerateToken("user-42")
		Expect(err).NotTo(HaveOccurred())

		firstClaims, err := manager.ParseToken(first)
		Expect(err).NotTo(HaveOccurred())
		secondClaims, err := manager.ParseToken(second)
		Expect(err).NotTo(HaveOccurred())
		Expect(firstClaims.ID).NotTo(Equal(secondClaims.ID))
	})

	It("rejects garbage", func() {
		_, err := manager.ParseToken("not.a.token")
		Expect(err).To(MatchError(ErrInvalidToken))
	})

	It("rejects a token signed with a different secret", func() {
		other := NewTokenManager("some-other-secret", 15)
		token, _, err := other.GenerateToken("user-42")
		Expect(err).NotTo(HaveOccurred())

		_, err = manager.ParseToken(token)
		Expect(err).To(MatchError(ErrInvalidToken))
	})

	It("rejects an expired token", func() {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-42",
				ID:        "expired-token",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-test-secret"))
		Expect(err).NotTo(HaveOccurred())

		_, err = manager.ParseToken(signed)
		Expect(err).To(MatchError(ErrInvalidToken))
	})

	It("rejects an unexpected signing method", func() {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-42",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("unit-test-secret"))
		Expect(err).NotTo(HaveOccurred())

		_, err = manager.ParseToken(signed)
		Expect(err).To(MatchError(ErrInvalidToken))
	})

	It("rejects a token without a subject", func() {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "no-subject",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-test-secret"))
		Expect(err).NotTo(HaveOccurred())

		_, err = manager.ParseToken(signed)
		Expect(err).To(MatchError(ErrInvalidToken))
	})
})
