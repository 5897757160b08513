package http

import "github.com/gin-gonic/gin"

// Register attaches the account pages under /user and the session probe
// under /api.
func (h *Handler) Register(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	user.GET("/login", h.ShowLogin)
	user.POST("/login", h.Login)
	user.GET("/register", h.ShowRegister)
	user.POST("/register", h.SignUp)
	user.POST("/logout", h.Logout)
}

// RegisterAPI attaches the JSON session endpoint.
func (h *Handler) RegisterAPI(rg *gin.RouterGroup) {
	rg.GET("/session", h.Session)
}
