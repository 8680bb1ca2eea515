package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/rahul/shopkart/backend/internal/httpx"
	"github.com/rahul/shopkart/backend/internal/models"
	"github.com/rahul/shopkart/backend/internal/store"
	"github.com/rahul/shopkart/backend/internal/validate"
)

const genericFailure = "Something went wrong, please try again."

// UserStore defines the interface for user persistence.
type UserStore interface {
	Insert(ctx context.Context, u *models.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetToken(ctx context.Context, id, token string) error
	List(ctx context.Context) ([]models.User, error)
}

// Handler holds user and auth HTTP handlers.
type Handler struct {
	users     UserStore
	jwtSecret string
}

func NewHandler(users UserStore, jwtSecret string) *Handler {
	return &Handler{users: users, jwtSecret: jwtSecret}
}

// Register creates a new user. It does not log the user in.
//
// @Summary Register a new user
// @Description Create a new account with name, email, password, mobile, and gender
// @Tags user
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "User registration data"
// @Success 201 {object} httpx.Envelope "User registered"
// @Failure 400 {object} httpx.Envelope "Validation failure or duplicate email"
// @Router /api/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res := validate.User(validate.UserFields{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Mobile:    req.Mobile,
		Gender:    req.Gender,
	})
	if !res.OK() {
		httpx.Write(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}

	// Pre-check keeps the common case friendly; the unique index backstops
	// concurrent registrations.
	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		httpx.Error(w, http.StatusBadRequest, "User already exists, please try again.")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashed),
		Mobile:    req.Mobile,
		Gender:    req.Gender,
	}
	if _, err := h.users.Insert(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			httpx.Error(w, http.StatusBadRequest, "User already exists, please try again.")
			return
		}
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}

	httpx.Error(w, http.StatusCreated, "User registered successfully, please login.")
}

// Login verifies credentials, issues a token, and stores it on the user.
// A fresh login overwrites any previously issued token.
//
// @Summary Login a user
// @Description Authenticate with email and password, returning the user and a bearer token
// @Tags user
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} httpx.Envelope{data=models.LoginResponse} "Login successful"
// @Failure 401 {object} httpx.Envelope "Invalid credentials"
// @Router /api/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.Error(w, http.StatusUnauthorized, "Invalid email, please try again.")
			return
		}
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		httpx.Error(w, http.StatusUnauthorized, "Invalid password, please try again.")
		return
	}

	token, err := GenerateToken(user.ID.Hex(), h.jwtSecret)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}
	if err := h.users.SetToken(r.Context(), user.ID.Hex(), token); err != nil {
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}

	httpx.Write(w, http.StatusOK, "Login successful.", models.LoginResponse{
		User:  user,
		Token: token,
	})
}

// Profile returns the gated caller's stripped record.
//
// @Summary Get profile details
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.Envelope{data=models.User} "Caller's profile"
// @Failure 400 {object} httpx.Envelope "Invalid token"
// @Failure 401 {object} httpx.Envelope "Unauthorized"
// @Router /api/profileDetails [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	caller := UserFromContext(r.Context())
	if caller == nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid token, please authenticate.")
		return
	}

	user, err := h.users.GetByID(r.Context(), caller.ID.Hex())
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid token, please authenticate.")
		return
	}

	httpx.Write(w, http.StatusOK, "OK", user)
}

// Logout clears the caller's stored token unconditionally.
//
// @Summary Logout the current user
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.Envelope "Logout successful"
// @Failure 401 {object} httpx.Envelope "Unauthorized"
// @Router /api/logout [get]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	caller := UserFromContext(r.Context())
	if caller == nil {
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}

	if err := h.users.SetToken(r.Context(), caller.ID.Hex(), ""); err != nil {
		log.Printf("logout: clear token: %v", err)
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}

	httpx.Error(w, http.StatusOK, "Logout successful.")
}

// ListUsers returns every registered user, stripped.
//
// @Summary List all users
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.Envelope{data=[]models.User} "Registered users"
// @Failure 401 {object} httpx.Envelope "Unauthorized"
// @Router /api/users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, genericFailure)
		return
	}

	httpx.Write(w, http.StatusOK, "Users retrieved successfully.", users)
}
