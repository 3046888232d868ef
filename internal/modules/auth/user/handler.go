package user

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blogicum/blogicum/internal/middleware"
	"github.com/blogicum/blogicum/internal/modules/content/post"
	"github.com/blogicum/blogicum/internal/pkg/form"
	"github.com/blogicum/blogicum/internal/pkg/pagination"
	"github.com/blogicum/blogicum/internal/pkg/response"
	"github.com/blogicum/blogicum/internal/pkg/view"
	"github.com/gin-gonic/gin"
)

const (
	tmplLogin        = "login.html"
	tmplRegistration = "registration.html"
	tmplProfile      = "profile.html"
	tmplProfileEdit  = "profile_edit.html"
	tmplPassword     = "password_change.html"

	msgBadCredentials = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	msgUsernameTaken  = "A user with that username already exists."
	msgWrongPassword  = "Your old password was entered incorrectly. Please enter it again."
	msgSamePassword   = "The new password must differ from the old one."
	msgBadUsername    = "Enter a valid username. It may contain only letters, numbers, and @/./+/-/_ characters."
)

// Options configures session cookies and profile paging.
type Options struct {
	PageSize     int
	SessionTTL   time.Duration
	SecureCookie bool
}

type Handler struct {
	svc   *Service
	posts *post.Service
	opts  Options
}

func NewHandler(svc *Service, posts *post.Service, opts Options) *Handler {
	return &Handler{svc: svc, posts: posts, opts: opts}
}

// RegisterRoutes mounts account and profile routes. rateLimit, when set,
// guards the login and registration forms per scope.
func (h *Handler) RegisterRoutes(r gin.IRouter, loginMW gin.HandlerFunc, rateLimit func(scope string) gin.HandlerFunc) {
	limit := func(scope string) gin.HandlerFunc {
		if rateLimit == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return rateLimit(scope)
	}

	auth := r.Group("/auth")
	auth.GET("/registration/", h.registrationForm)
	auth.POST("/registration/", limit("registration"), h.register)
	auth.GET("/login/", h.loginForm)
	auth.POST("/login/", limit("login"), h.login)
	auth.POST("/logout/", h.logout)

	r.GET("/profile/:username/", h.profile)
	r.GET("/edit_profile/", loginMW, h.editProfileForm)
	r.POST("/edit_profile/", loginMW, h.editProfile)
	r.GET("/change_password/", loginMW, h.passwordForm)
	r.POST("/change_password/", loginMW, h.changePassword)
}

// registrationForm GET /auth/registration/
func (h *Handler) registrationForm(c *gin.Context) {
	view.OK(c, tmplRegistration, gin.H{"Title": "Sign up"})
}

// register POST /auth/registration/
func (h *Handler) register(c *gin.Context) {
	var f RegisterForm
	errs := form.Errors(c.ShouldBind(&f))
	render := func() {
		f.Password1, f.Password2 = "", ""
		view.Render(c, http.StatusBadRequest, tmplRegistration, gin.H{"Title": "Sign up", "Form": f, "Errors": errs})
	}
	if len(errs) > 0 {
		render()
		return
	}

	_, err := h.svc.Register(RegisterInput{Username: f.Username, Email: f.Email, Password: f.Password1})
	switch {
	case err == nil:
		response.Redirect(c, "/auth/login/")
	case errors.Is(err, ErrUsernameTaken):
		errs["username"] = msgUsernameTaken
		render()
	case errors.Is(err, ErrInvalidUsername):
		errs["username"] = msgBadUsername
		render()
	default:
		response.InternalError(c, err)
	}
}

// loginForm GET /auth/login/
func (h *Handler) loginForm(c *gin.Context) {
	view.OK(c, tmplLogin, gin.H{"Title": "Log in", "Next": safeNext(c.Query("next"))})
}

// login POST /auth/login/
func (h *Handler) login(c *gin.Context) {
	var f LoginForm
	errs := form.Errors(c.ShouldBind(&f))
	next := safeNext(f.Next)
	render := func() {
		f.Password = ""
		view.Render(c, http.StatusBadRequest, tmplLogin, gin.H{"Title": "Log in", "Form": f, "Errors": errs, "Next": next})
	}
	if len(errs) > 0 {
		render()
		return
	}

	token, _, err := h.svc.Login(f.Username, f.Password, c.ClientIP(), c.Request.UserAgent(), h.opts.SessionTTL)
	switch {
	case err == nil:
		middleware.SetSessionCookie(c, token, h.opts.SessionTTL, h.opts.SecureCookie)
		if next == "" {
			next = "/"
		}
		response.Redirect(c, next)
	case errors.Is(err, ErrInvalidCredentials):
		errs[form.FormError] = msgBadCredentials
		render()
	default:
		response.InternalError(c, err)
	}
}

// logout POST /auth/logout/
func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Logout(middleware.CurrentUserID(c), middleware.CurrentSessionID(c)); err != nil {
		_ = c.Error(err)
	}
	middleware.ClearSessionCookie(c)
	response.Redirect(c, "/")
}

// profile GET /profile/:username/
func (h *Handler) profile(c *gin.Context) {
	u, err := h.svc.GetByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}

	own := middleware.CurrentUserID(c) == u.ID
	posts, page, err := h.posts.ListByAuthor(u.ID, own, pagination.FromContext(c, h.opts.PageSize))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	view.OK(c, tmplProfile, gin.H{"Title": u.DisplayName(), "Profile": u, "Posts": posts, "Page": page})
}

// editProfileForm GET /edit_profile/
func (h *Handler) editProfileForm(c *gin.Context) {
	u := middleware.CurrentUser(c)
	view.OK(c, tmplProfileEdit, gin.H{
		"Title": "Edit profile",
		"Form":  ProfileForm{FirstName: u.FirstName, LastName: u.LastName, Username: u.Username, Email: u.Email},
	})
}

// editProfile POST /edit_profile/
func (h *Handler) editProfile(c *gin.Context) {
	var f ProfileForm
	errs := form.Errors(c.ShouldBind(&f))
	render := func() {
		view.Render(c, http.StatusBadRequest, tmplProfileEdit, gin.H{"Title": "Edit profile", "Form": f, "Errors": errs})
	}
	if len(errs) > 0 {
		render()
		return
	}

	u, err := h.svc.UpdateProfile(middleware.CurrentUserID(c), ProfileInput(f))
	switch {
	case err == nil:
		response.Redirect(c, view.ProfilePath(u.Username))
	case errors.Is(err, ErrUsernameTaken):
		errs["username"] = msgUsernameTaken
		render()
	case errors.Is(err, ErrInvalidUsername):
		errs["username"] = msgBadUsername
		render()
	default:
		response.InternalError(c, err)
	}
}

// passwordForm GET /change_password/
func (h *Handler) passwordForm(c *gin.Context) {
	view.OK(c, tmplPassword, gin.H{"Title": "Change password"})
}

// changePassword POST /change_password/
func (h *Handler) changePassword(c *gin.Context) {
	var f PasswordForm
	errs := form.Errors(c.ShouldBind(&f))
	render := func() {
		view.Render(c, http.StatusBadRequest, tmplPassword, gin.H{"Title": "Change password", "Errors": errs})
	}
	if len(errs) > 0 {
		render()
		return
	}

	u := middleware.CurrentUser(c)
	err := h.svc.ChangePassword(u.ID, middleware.CurrentSessionID(c), f.OldPassword, f.NewPassword1)
	switch {
	case err == nil:
		response.Redirect(c, view.ProfilePath(u.Username))
	case errors.Is(err, ErrWrongPassword):
		errs["old_password"] = msgWrongPassword
		render()
	case errors.Is(err, ErrPasswordSameAsOld):
		errs["new_password1"] = msgSamePassword
		render()
	default:
		response.InternalError(c, err)
	}
}

// safeNext keeps only same-site relative paths.
func safeNext(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.ContainsAny(raw, "\\\r\n") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return raw
}
