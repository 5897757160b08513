package http

import "github.com/gin-gonic/gin"

// Register attaches the project views to the /projects group. Everything
// but the list requires a signed-in user.
func (h *Handler) Register(rg *gin.RouterGroup, requireUser gin.HandlerFunc) {
	rg.GET("", h.List)

	authed := rg.Group("", requireUser)
	authed.GET("/add", h.ShowAdd)
	authed.POST("/add", h.Add)
	authed.GET("/edit/:id", h.ShowEdit)
	authed.POST("/edit/:id", h.Edit)
	authed.POST("/edit/:id/image", h.UploadImage)
	authed.GET("/edit/:id/delete", h.ConfirmDelete)
	authed.POST("/edit/:id/delete", h.Delete)
}
