package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskfolio/taskfolio-web/internal/apiclient"
	"github.com/taskfolio/taskfolio-web/internal/auth"
	"github.com/taskfolio/taskfolio-web/internal/auth/service"
	"github.com/taskfolio/taskfolio-web/internal/forms"
	"github.com/taskfolio/taskfolio-web/internal/web"
)

const (
	pageLogin    = "auth/login"
	pageRegister = "auth/register"
)

func (h *Handler) ShowLogin(c *gin.Context) {
	web.HTML(c, http.StatusOK, pageLogin, "Login", loginView{})
}

// Login signs the user in and lands on the home page with a success flash.
// Failures re-render the form with the backend's message.
func (h *Handler) Login(c *gin.Context) {
	var form forms.Login
	_ = c.ShouldBind(&form)

	ac := auth.FromGin(c)
	_, errs, err := h.authService.Login(c.Request.Context(), ac, &form)
	if errs != nil || err != nil {
		view := loginView{Form: forms.Login{Email: form.Email}}
		view.Errors = errs
		status := http.StatusUnprocessableEntity
		if err != nil {
			view.Error = apiclient.UserMessage(err, service.LoginFailed)
			status = web.FailureStatus(err)
		}
		web.HTML(c, status, pageLogin, "Login", view)
		return
	}

	ac.SetFlash("Login successful!")
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) ShowRegister(c *gin.Context) {
	web.HTML(c, http.StatusOK, pageRegister, "Register", registerView{})
}

// SignUp creates the account and sends the user to the login page.
func (h *Handler) SignUp(c *gin.Context) {
	var form forms.Register
	_ = c.ShouldBind(&form)

	errs, err := h.authService.Register(c.Request.Context(), auth.APIFromGin(c), &form)
	if errs != nil || err != nil {
		view := registerView{Form: forms.Register{Name: form.Name, Email: form.Email}}
		view.Errors = errs
		status := http.StatusUnprocessableEntity
		if err != nil {
			view.Error = apiclient.UserMessage(err, service.RegisterFailed)
			status = web.FailureStatus(err)
		}
		web.HTML(c, status, pageRegister, "Register", view)
		return
	}

	auth.FromGin(c).SetFlash("Registration successful!")
	c.Redirect(http.StatusSeeOther, "/user/login")
}

// Logout always ends the local session, even when the backend call fails.
func (h *Handler) Logout(c *gin.Context) {
	auth.FromGin(c).Logout(c.Request.Context())
	c.Redirect(http.StatusSeeOther, "/user/login")
}

// Session reports the auth context as JSON.
func (h *Handler) Session(c *gin.Context) {
	ac := auth.FromGin(c)
	c.JSON(http.StatusOK, sessionResponse{
		Authenticated: ac.IsAuthenticated(),
		User:          ac.User(),
	})
}
