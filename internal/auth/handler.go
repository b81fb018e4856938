package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hanan-raza/mini-revolut/internal/account"
	"github.com/hanan-raza/mini-revolut/internal/identity"
)

// Handler exposes registration and login endpoints.
type Handler struct {
	ids      *identity.Service
	tokens   *Service
	accounts account.Store
}

// NewHandler builds the auth HTTP handler.
func NewHandler(ids *identity.Service, tokens *Service, accounts account.Store) *Handler {
	return &Handler{ids: ids, tokens: tokens, accounts: accounts}
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

type authResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      userResponse `json:"user"`
}

// Register creates a user, provisions their account and returns a token.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.ids.Register(c.UserContext(), identity.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return fiber.NewError(http.StatusConflict, "Email already in use")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return h.respondWithToken(c, http.StatusCreated, user)
}

// Login validates credentials and returns a token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.ids.Authenticate(c.UserContext(), identity.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, "Invalid credentials")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return h.respondWithToken(c, http.StatusOK, user)
}

func (h *Handler) respondWithToken(c *fiber.Ctx, status int, user identity.User) error {
	token, expiresIn, err := h.tokens.IssueToken(user)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	balance, err := h.accounts.Balance(c.UserContext(), user.ID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(status).JSON(authResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		User: userResponse{
			ID:       user.ID,
			FullName: user.FullName,
			Email:    user.Email,
			Balance:  balance,
			Currency: "EUR",
		},
	})
}
