package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Mik3y-F/nitty/internal/store"
)

// TokenResponse is the OAuth2-style login payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserPublic is the identity projection returned by signup. The password
// hash never appears here.
type UserPublic struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
}

func publicUser(user *store.User) UserPublic {
	return UserPublic{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		IsActive:    user.IsActive,
		IsSuperuser: user.IsSuperuser,
	}
}

// LoginRequest is the form payload of the access-token endpoint. The
// username field carries the email, per the OAuth2 password flow shape.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginAccessToken implements the OAuth2 compatible token login.
func (s *Server) LoginAccessToken(c *fiber.Ctx) error {
	payload := LoginRequest{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	token, err := s.auther.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// SignupRequest is the open-registration payload.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
			validation.Length(1, 255),
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(8, 40),
		),
		validation.Field(
			&r.FullName,
			validation.Length(0, 255),
		),
	)
}

// Signup creates a new user without the need to be logged in.
func (s *Server) Signup(c *fiber.Ctx) error {
	payload := new(SignupRequest)
	if err := c.BodyParser(payload); err != nil {
		return invalidInput("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	user, err := s.auther.Register(c.UserContext(), payload.Email, payload.Password, payload.FullName)
	if err != nil {
		return err
	}

	return c.JSON(publicUser(user))
}
