package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tournest/tournest-api/internal/config"
	"github.com/tournest/tournest-api/internal/models"
)

const TokenDuration = 24 * time.Hour

// AuthInput carries the raw Cookie header into operations that need a
// logged-in user.
type AuthInput struct {
	Cookie string `header:"Cookie"`
}

type AuthHandler struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{cfg: cfg, db: db}
}

type RegisterRequest struct {
	Body struct {
		Email          string  `json:"email" format:"email" required:"true"`
		Password       string  `json:"password" minLength:"8" required:"true"`
		FirstName      string  `json:"first_name" required:"true"`
		LastName       string  `json:"last_name" required:"true"`
		Role           string  `json:"role" enum:"tourist,guide" required:"true"`
		HalfDayPrice   float64 `json:"half_day_price,omitempty" doc:"Guide rate for tours up to 4 hours"`
		FullDayPrice   float64 `json:"full_day_price,omitempty" doc:"Guide rate for tours up to 8 hours"`
		ExtraHourPrice float64 `json:"extra_hour_price,omitempty" doc:"Guide rate per hour beyond 8"`
	}
}

type RegisterResponse struct {
	Body struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
}

func (h *AuthHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*RegisterResponse, error) {
	role := models.Role(input.Body.Role)
	if !role.IsValid() {
		return nil, huma.Error400BadRequest("Role must be tourist or guide")
	}
	if role == models.RoleGuide && input.Body.HalfDayPrice <= 0 && input.Body.FullDayPrice <= 0 {
		return nil, huma.Error400BadRequest("Guides must provide a rate card")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Body.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to hash password")
	}

	user := models.User{
		Email:          input.Body.Email,
		PasswordHash:   string(hash),
		FirstName:      input.Body.FirstName,
		LastName:       input.Body.LastName,
		Role:           role,
		HalfDayPrice:   input.Body.HalfDayPrice,
		FullDayPrice:   input.Body.FullDayPrice,
		ExtraHourPrice: input.Body.ExtraHourPrice,
	}

	if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, huma.Error409Conflict("Email already registered")
	}

	res := &RegisterResponse{}
	res.Body.ID = user.ID
	res.Body.Email = user.Email
	res.Body.Role = string(user.Role)
	return res, nil
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email" required:"true"`
		Password string `json:"password" required:"true"`
	}
}

type LoginResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	var user models.User
	if err := h.db.WithContext(ctx).Where("email = ?", input.Body.Email).First(&user).Error; err != nil {
		return nil, huma.Error401Unauthorized("Invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Body.Password)) != nil {
		return nil, huma.Error401Unauthorized("Invalid email or password")
	}

	token, err := h.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &LoginResponse{}
	res.SetCookie = http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	}
	res.Body.Token = token
	res.Body.Role = string(user.Role)
	return res, nil
}

func (h *AuthHandler) GenerateToken(userID uint, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// Authorize extracts and verifies the session from a raw Cookie header and
// returns the caller's identity and role.
func (h *AuthHandler) Authorize(ctx context.Context, cookieHeader string) (uint, models.Role, error) {
	request := http.Request{Header: http.Header{"Cookie": {cookieHeader}}}
	cookie, err := request.Cookie("auth_token")
	if err != nil {
		return 0, "", huma.Error401Unauthorized("No token found")
	}

	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", huma.Error401Unauthorized("Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", huma.Error401Unauthorized("Invalid token claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat == 0 {
		return 0, "", huma.Error401Unauthorized("Invalid token claims")
	}
	roleStr, _ := claims["role"].(string)
	role := models.Role(roleStr)
	if !role.IsValid() {
		return 0, "", huma.Error401Unauthorized("Invalid token claims")
	}

	return uint(userIDFloat), role, nil
}

type MeRequest struct {
	AuthInput
}

type MeResponse struct {
	Body struct {
		ID        uint   `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Role      string `json:"role"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *MeRequest) (*MeResponse, error) {
	userID, _, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}

	res := &MeResponse{}
	res.Body.ID = user.ID
	res.Body.Email = user.Email
	res.Body.FirstName = user.FirstName
	res.Body.LastName = user.LastName
	res.Body.Role = string(user.Role)
	return res, nil
}
