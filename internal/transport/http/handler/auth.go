package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"soundnest/internal/core/auth"
	"soundnest/internal/domain"
	"soundnest/internal/service"
	"soundnest/internal/transport/http/ez"
	"soundnest/pkg/utils"
)

type AuthHandler struct {
	users   *service.UserService
	jwt     *auth.JWTer
	isAdmin func(email string) bool
}

// NewAuthHandler isAdmin 为 nil 时所有注册用户都是普通角色
func NewAuthHandler(users *service.UserService, j *auth.JWTer, isAdmin func(string) bool) *AuthHandler {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &AuthHandler{users: users, jwt: j, isAdmin: isAdmin}
}

func (h *AuthHandler) Priority() int { return 10 }

type signupIn struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	NameForURL  string `json:"nameForUrl"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type signupOut struct {
	User *domain.User `json:"user"`
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginOut struct {
	AuthToken string `json:"authToken"`
}

func (h *AuthHandler) MountAPI(public, authed ez.EZ) {
	ez.RegisterAction(public, ez.Action[signupIn, signupOut]{
		Method:  http.MethodPost,
		Path:    "/auth/signup",
		Binder:  ez.BindJSON,
		Status:  http.StatusCreated,
		Handler: h.signup,
	})
	ez.RegisterAction(public, ez.Action[loginIn, loginOut]{
		Method:  http.MethodPost,
		Path:    "/auth/login",
		Binder:  ez.BindJSON,
		Handler: h.login,
	})
	ez.RegisterAction(authed, ez.Action[struct{}, *auth.Claims]{
		Method: http.MethodGet,
		Path:   "/auth/verify",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*auth.Claims, error) {
			claims, ok := c.Get(ez.KeyClaims)
			if !ok {
				return nil, ez.Unauthorized("unauthorized")
			}
			return claims.(*auth.Claims), nil
		},
	})
}

func (h *AuthHandler) signup(c *gin.Context, in *signupIn) (signupOut, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" {
		return signupOut{}, ez.BadRequest("please provide email, password and name")
	}
	if len(in.Password) < utils.MinPasswordLen {
		return signupOut{}, ez.BadRequest("password has to be 4 chars min")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return signupOut{}, ez.Internal("hash password failed", err)
	}
	role := domain.RoleUser
	if h.isAdmin(in.Email) {
		role = domain.RoleAdmin
	}
	u, err := h.users.Create(c.Request.Context(), domain.NewUser{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Slug:         in.NameForURL,
		ImageURL:     in.ImageURL,
		Location:     in.Location,
		Description:  in.Description,
		Role:         role,
	})
	if err != nil {
		return signupOut{}, err
	}
	return signupOut{User: u}, nil
}

func (h *AuthHandler) login(c *gin.Context, in *loginIn) (loginOut, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return loginOut{}, ez.BadRequest("provide email and password")
	}
	u, err := h.users.FindByEmail(c.Request.Context(), in.Email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return loginOut{}, ez.BadRequest("user not found")
	case err != nil:
		return loginOut{}, err
	}
	if !utils.CheckPassword(in.Password, u.PasswordHash) {
		return loginOut{}, ez.Unauthorized("unable to authenticate")
	}
	tok, err := h.jwt.Issue(auth.Identity{UID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role})
	if err != nil || tok == "" {
		return loginOut{}, ez.Internal("issue token failed", err)
	}
	return loginOut{AuthToken: tok}, nil
}
