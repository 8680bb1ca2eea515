package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rahul/shopkart/backend/internal/auth"
	"github.com/rahul/shopkart/backend/internal/models"
	"github.com/rahul/shopkart/backend/internal/store"
)

const testSecret = "unit-test-secret"

// fakeUserStore implements auth.UserStore in memory.
type fakeUserStore struct {
	users map[string]*models.User // keyed by hex id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Insert(_ context.Context, u *models.User) (string, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return "", store.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	f.users[u.ID.Hex()] = u
	return u.ID.Hex(), nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) SetToken(_ context.Context, id, token string) error {
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Token = token
	return nil
}

func (f *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func registerBody() map[string]string {
	return map[string]string{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@x.com",
		"password":  "Passw0rd@",
		"mobile":    "9876543210",
		"gender":    "Female",
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	users := newFakeUserStore()
	h := auth.NewHandler(users, testSecret)

	rec := postJSON(t, h.Register, registerBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	// Password must be stored hashed, not in the clear.
	u, err := users.GetByEmail(context.Background(), "jane@x.com")
	if err != nil {
		t.Fatalf("stored user missing: %v", err)
	}
	if u.Password == "Passw0rd@" || u.Password == "" {
		t.Error("password stored unhashed")
	}
	if u.Token != "" {
		t.Error("register must not auto-login")
	}

	t.Run("duplicate email", func(t *testing.T) {
		rec := postJSON(t, h.Register, registerBody())
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("weak password rejected before hashing", func(t *testing.T) {
		body := registerBody()
		body["email"] = "other@x.com"
		body["password"] = "weak"
		rec := postJSON(t, h.Register, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if _, err := users.GetByEmail(context.Background(), "other@x.com"); err == nil {
			t.Error("user with weak password must not be stored")
		}
	})

	t.Run("bad mobile", func(t *testing.T) {
		body := registerBody()
		body["email"] = "third@x.com"
		body["mobile"] = "1234567890"
		rec := postJSON(t, h.Register, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestLogin(t *testing.T) {
	users := newFakeUserStore()
	h := auth.NewHandler(users, testSecret)

	if rec := postJSON(t, h.Register, registerBody()); rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d", rec.Code)
	}

	t.Run("success issues and stores token", func(t *testing.T) {
		rec := postJSON(t, h.Login, map[string]string{"email": "jane@x.com", "password": "Passw0rd@"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
		}

		var env struct {
			Data models.LoginResponse `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.Data.Token == "" {
			t.Fatal("login returned no token")
		}

		claims, err := auth.ValidateToken(env.Data.Token, testSecret)
		if err != nil {
			t.Fatalf("issued token does not validate: %v", err)
		}
		stored, err := users.GetByID(context.Background(), claims.UserID)
		if err != nil {
			t.Fatalf("token id does not resolve: %v", err)
		}
		if stored.Email != "jane@x.com" {
			t.Errorf("token resolves to %s, want jane@x.com", stored.Email)
		}
		if stored.Token != env.Data.Token {
			t.Error("issued token not persisted on the user")
		}
	})

	t.Run("new login overwrites prior token", func(t *testing.T) {
		first := loginToken(t, h)
		second := loginToken(t, h)
		u, _ := users.GetByEmail(context.Background(), "jane@x.com")
		if u.Token != second {
			t.Error("stored token is not the most recent login's")
		}
		if first == second {
			t.Skip("tokens identical within clock resolution")
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := postJSON(t, h.Login, map[string]string{"email": "ghost@x.com", "password": "Passw0rd@"})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := postJSON(t, h.Login, map[string]string{"email": "jane@x.com", "password": "Wrong0ne@"})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func loginToken(t *testing.T, h *auth.Handler) string {
	t.Helper()
	rec := postJSON(t, h.Login, map[string]string{"email": "jane@x.com", "password": "Passw0rd@"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d", rec.Code)
	}
	var env struct {
		Data models.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Data.Token
}

func TestProfileAndLogout(t *testing.T) {
	users := newFakeUserStore()
	h := auth.NewHandler(users, testSecret)
	postJSON(t, h.Register, registerBody())
	u, _ := users.GetByEmail(context.Background(), "jane@x.com")
	token := loginToken(t, h)

	t.Run("profile returns stripped identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profileDetails", nil)
		req = req.WithContext(auth.ContextWithUser(req.Context(), u, token))
		rec := httptest.NewRecorder()
		h.Profile(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var raw struct {
			Data map[string]any `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if raw.Data["email"] != "jane@x.com" {
			t.Errorf("email = %v", raw.Data["email"])
		}
		if _, leaked := raw.Data["password"]; leaked {
			t.Error("password leaked in profile response")
		}
		if _, leaked := raw.Data["token"]; leaked {
			t.Error("token leaked in profile response")
		}
	})

	t.Run("profile without gate context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profileDetails", nil)
		rec := httptest.NewRecorder()
		h.Profile(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("logout clears stored token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/logout", nil)
		req = req.WithContext(auth.ContextWithUser(req.Context(), u, token))
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		after, _ := users.GetByEmail(context.Background(), "jane@x.com")
		if after.Token != "" {
			t.Error("logout did not clear the stored token")
		}
	})
}

func TestListUsers(t *testing.T) {
	users := newFakeUserStore()
	h := auth.NewHandler(users, testSecret)
	postJSON(t, h.Register, registerBody())

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	h.ListUsers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var raw struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw.Data) != 1 {
		t.Fatalf("len = %d, want 1", len(raw.Data))
	}
	if _, leaked := raw.Data[0]["password"]; leaked {
		t.Error("password leaked in user list")
	}
}
