package user

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/wichananm65/shop-assistant-backend/internal/session"
)

const testSecret = "test-secret"

// makeAppWithUserHandler wires the handler behind a "bootstrap" middleware that
// injects a jwt.Token into locals when the X-User-ID header is provided.
func makeAppWithUserHandler(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app)
	return app
}

// makeAuthApp mirrors the production wiring: public routes, then JWT and
// session checks, then protected routes.
func makeAuthApp(h *Handler, store session.Store) *fiber.App {
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	app.Use(jwtware.New(jwtware.Config{SigningKey: []byte(testSecret)}))
	app.Use(session.Require(store, nil))
	h.RegisterProtectedRoutes(app)
	return app
}

func newHandler(repo Repository, store session.Store) *Handler {
	return NewHandler(NewService(repo), store, NewTokenIssuer(testSecret, time.Hour), nil)
}

func postJSON(app *fiber.App, path, body string) (*testResponse, error) {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		return nil, err
	}
	b, _ := io.ReadAll(res.Body)
	return &testResponse{status: res.StatusCode, body: b}, nil
}

type testResponse struct {
	status int
	body   []byte
}

func TestProfileRoute_RequiresUser(t *testing.T) {
	seed := []User{{ID: 7, Username: "jenny", Email: "j@example.com", Password: "hash", FirstName: "Jenny", IsActive: true}}
	app := makeAppWithUserHandler(newHandler(NewInMemoryRepository(seed), session.NewMemoryStore(time.Hour)))

	res, err := app.Test(httptest.NewRequest("GET", "/api/auth/profile", nil))
	if err != nil {
		t.Fatalf("profile request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected unauthorized status, got %d", res.StatusCode)
	}

	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	req.Header.Set("X-User-ID", "7")
	res2, err := app.Test(req)
	if err != nil {
		t.Fatalf("authorized profile request failed: %v", err)
	}
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 OK for authorized profile, got %d", res2.StatusCode)
	}
	b, _ := io.ReadAll(res2.Body)
	body := string(b)
	if !strings.Contains(body, `"username":"jenny"`) {
		t.Fatalf("response body does not contain username, got %s", body)
	}
	if strings.Contains(body, "hash") || strings.Contains(body, "password") {
		t.Fatalf("password leaked in profile: %s", body)
	}

	req3 := httptest.NewRequest("GET", "/api/auth/profile", nil)
	req3.Header.Set("X-User-ID", "99")
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", res3.StatusCode)
	}
}

func TestSignup_Validation(t *testing.T) {
	app := makeAppWithUserHandler(newHandler(NewInMemoryRepository(nil), session.NewMemoryStore(time.Hour)))

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"short password", `{"username":"bob","password":"short","password_confirm":"short"}`, "password"},
		{"mismatch", `{"username":"bob","password":"longenough1","password_confirm":"longenough2"}`, "non_field_errors"},
		{"missing username", `{"password":"longenough1","password_confirm":"longenough1"}`, "username"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := postJSON(app, "/api/auth/signup", tc.body)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if res.status != fiber.StatusBadRequest {
				t.Fatalf("expected 400 got %d", res.status)
			}
			var errs map[string][]string
			if err := json.Unmarshal(res.body, &errs); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(errs[tc.field]) == 0 {
				t.Fatalf("expected error for %s, got %v", tc.field, errs)
			}
		})
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	app := makeAppWithUserHandler(newHandler(NewInMemoryRepository(nil), session.NewMemoryStore(time.Hour)))
	body := `{"username":"bob","email":"b@example.com","password":"longenough1","password_confirm":"longenough1"}`

	first, err := postJSON(app, "/api/auth/signup", body)
	if err != nil || first.status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %v %v", first, err)
	}
	second, _ := postJSON(app, "/api/auth/signup", body)
	if second.status != fiber.StatusConflict {
		t.Fatalf("expected 409 for duplicate username, got %d", second.status)
	}
}

func TestLogin_Errors(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	svc := NewService(repo)
	ctx := t.Context()
	u, err := svc.Register(ctx, Registration{Username: "carol", Password: "longenough1", PasswordConfirm: "longenough1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	app := makeAppWithUserHandler(NewHandler(svc, session.NewMemoryStore(time.Hour), NewTokenIssuer(testSecret, time.Hour), nil))

	cases := []struct {
		body string
		want string
	}{
		{`{"username":"carol"}`, "Must include username and password"},
		{`{"username":"carol","password":"wrongpassword"}`, "Invalid login credentials"},
		{`{"username":"nobody","password":"longenough1"}`, "Invalid login credentials"},
	}
	for _, tc := range cases {
		res, _ := postJSON(app, "/api/auth/login", tc.body)
		if res.status != fiber.StatusBadRequest || !strings.Contains(string(res.body), tc.want) {
			t.Fatalf("body %s: expected 400 %q, got %d %s", tc.body, tc.want, res.status, res.body)
		}
	}

	if _, err := svc.SetActive(ctx, u.Username, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	res, _ := postJSON(app, "/api/auth/login", `{"username":"carol","password":"longenough1"}`)
	if res.status != fiber.StatusBadRequest || !strings.Contains(string(res.body), "User account is disabled") {
		t.Fatalf("expected disabled account error, got %d %s", res.status, res.body)
	}
}

func TestLoginProfileLogout_RevokesToken(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	app := makeAuthApp(newHandler(NewInMemoryRepository(nil), store), store)

	signup, err := postJSON(app, "/api/auth/signup", `{"username":"dave","password":"longenough1","password_confirm":"longenough1"}`)
	if err != nil || signup.status != fiber.StatusCreated {
		t.Fatalf("signup failed: %v %v", signup, err)
	}

	login, _ := postJSON(app, "/api/auth/login", `{"username":"dave","password":"longenough1"}`)
	if login.status != fiber.StatusOK {
		t.Fatalf("expected 200 from login, got %d %s", login.status, login.body)
	}
	var payload struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := json.Unmarshal(login.body, &payload); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if payload.Token == "" || payload.User.Username != "dave" {
		t.Fatalf("unexpected login payload %s", login.body)
	}

	authed := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", "Bearer "+payload.Token)
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s %s failed: %v", method, path, err)
		}
		return res.StatusCode
	}

	if got := authed("GET", "/api/auth/profile"); got != fiber.StatusOK {
		t.Fatalf("expected 200 profile, got %d", got)
	}
	if got := authed("POST", "/api/auth/logout"); got != fiber.StatusOK {
		t.Fatalf("expected 200 logout, got %d", got)
	}
	if got := authed("GET", "/api/auth/profile"); got != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", got)
	}
}
