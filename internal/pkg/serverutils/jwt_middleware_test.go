package serverutils

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func jwtTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", JwtMiddleware, func(ctx *fiber.Ctx) error {
		// Same assertion every controller makes.
		return ctx.SendString(ctx.Locals("user_id").(string))
	})
	return app
}

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestJwtMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := jwtTestApp()

	exp := time.Now().Add(time.Hour).Unix()
	validToken := signHS256(t, "test-secret", jwt.MapClaims{"user_id": "2f0c4d6e-8a3b-4f1c-9d2e-5b6a7c8d9e0f", "exp": exp})
	numericClaim := signHS256(t, "test-secret", jwt.MapClaims{"user_id": 12345, "exp": exp})
	wrongSecret := signHS256(t, "other-secret", jwt.MapClaims{"user_id": "abc", "exp": exp})

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "abc", "exp": exp}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token passes user id through", authHeader: "Bearer " + validToken, wantStatus: 200, wantBody: "2f0c4d6e-8a3b-4f1c-9d2e-5b6a7c8d9e0f"},
		{name: "missing header", authHeader: "", wantStatus: 401},
		{name: "garbage token", authHeader: "Bearer not-a-jwt", wantStatus: 401},
		{name: "wrong secret", authHeader: "Bearer " + wrongSecret, wantStatus: 401},
		{name: "non-string user_id claim is rejected, not panicked on", authHeader: "Bearer " + numericClaim, wantStatus: 401},
		{name: "unsigned token is rejected", authHeader: "Bearer " + noneToken, wantStatus: 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("body = %q, want %q", string(body), tt.wantBody)
				}
			}
		})
	}
}
