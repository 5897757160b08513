package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskfolio/taskfolio-web/internal/apiclient"
	"github.com/taskfolio/taskfolio-web/internal/auth"
	"github.com/taskfolio/taskfolio-web/internal/forms"
	"github.com/taskfolio/taskfolio-web/internal/logging"
	"github.com/taskfolio/taskfolio-web/internal/projects/domain"
	"github.com/taskfolio/taskfolio-web/internal/projects/service"
	"github.com/taskfolio/taskfolio-web/internal/web"
)

const (
	pageList   = "projects/list"
	pageAdd    = "projects/add"
	pageEdit   = "projects/edit"
	pageDelete = "projects/delete"

	imageField = "image"
)

// List renders the card grid for the committed search term.
func (h *Handler) List(c *gin.Context) {
	ac := auth.FromGin(c)
	search := strings.TrimSpace(c.Query("search"))

	view := listView{Search: search}
	items, err := h.svc.List(c.Request.Context(), auth.APIFromGin(c), search)
	if err != nil {
		ac.Observe(err)
		view.Error = service.ListFailed
	} else {
		view.Cards = NewCards(items, ac.User())
	}
	// Observe may have signed the user out.
	view.CanAdd = ac.IsAuthenticated()

	web.HTML(c, http.StatusOK, pageList, "Projects", view)
}

func (h *Handler) ShowAdd(c *gin.Context) {
	view := formView{Form: forms.Project{Status: string(domain.StatusNotStarted)}}
	web.HTML(c, http.StatusOK, pageAdd, "Add project", view)
}

func (h *Handler) Add(c *gin.Context) {
	var form forms.Project
	_ = c.ShouldBind(&form)

	errs, err := h.svc.Create(c.Request.Context(), auth.APIFromGin(c), &form)
	if errs != nil || err != nil {
		view := formView{Form: form}
		view.Errors = errs
		status := http.StatusUnprocessableEntity
		if err != nil {
			auth.FromGin(c).Observe(err)
			view.Error = apiclient.UserMessage(err, service.AddFailed)
			status = web.FailureStatus(err)
		}
		web.HTML(c, status, pageAdd, "Add project", view)
		return
	}

	c.Redirect(http.StatusSeeOther, "/projects")
}

// ShowEdit loads the project into the form. A load failure renders the
// message without the form.
func (h *Handler) ShowEdit(c *gin.Context) {
	id := c.Param("id")
	view := formView{ID: id}

	p, err := h.svc.Get(c.Request.Context(), auth.APIFromGin(c), id)
	if err != nil {
		auth.FromGin(c).Observe(err)
		view.Error = service.LoadFailed
		view.LoadFailed = true
		web.HTML(c, web.FailureStatus(err), pageEdit, "Edit project", view)
		return
	}

	view.Form = forms.ProjectFrom(p)
	web.HTML(c, http.StatusOK, pageEdit, "Edit project", view)
}

// Edit saves the form with a single PUT. A file still sitting in the image
// input is uploaded first so Save Changes never drops it.
func (h *Handler) Edit(c *gin.Context) {
	id := c.Param("id")
	var form forms.Project
	_ = c.ShouldBind(&form)

	img, status, err := h.storeImage(c)
	if err != nil {
		view := formView{ID: id, Form: form}
		view.Error = service.UploadFailed
		web.HTML(c, status, pageEdit, "Edit project", view)
		return
	}
	if img != nil {
		form.ImageID = img.ImageID
		form.ImageURL = img.ImageURL
	}

	errs, err := h.svc.Update(c.Request.Context(), auth.APIFromGin(c), id, &form)
	if errs != nil || err != nil {
		view := formView{ID: id, Form: form}
		view.Errors = errs
		status := http.StatusUnprocessableEntity
		if err != nil {
			auth.FromGin(c).Observe(err)
			view.Error = apiclient.UserMessage(err, service.UpdateFailed)
			status = web.FailureStatus(err)
		}
		web.HTML(c, status, pageEdit, "Edit project", view)
		return
	}

	c.Redirect(http.StatusSeeOther, "/projects")
}

// UploadImage stores the chosen file and re-renders the edit form pointing
// at it. The project itself only changes on Save Changes.
func (h *Handler) UploadImage(c *gin.Context) {
	id := c.Param("id")
	var form forms.Project
	_ = c.ShouldBind(&form)
	view := formView{ID: id, Form: form}

	img, status, err := h.storeImage(c)
	switch {
	case err != nil:
		view.Error = service.UploadFailed
		web.HTML(c, status, pageEdit, "Edit project", view)
		return
	case img == nil:
		// Nothing chosen: keep the form as it was.
		web.HTML(c, http.StatusOK, pageEdit, "Edit project", view)
		return
	}

	view.Form.ImageID = img.ImageID
	view.Form.ImageURL = img.ImageURL
	view.Notice = "Image uploaded. Save Changes to keep it."
	web.HTML(c, http.StatusOK, pageEdit, "Edit project", view)
}

// storeImage uploads the file in the image input. It returns a nil image
// when no file was chosen, and the page status to use on failure.
func (h *Handler) storeImage(c *gin.Context) (*domain.Image, int, error) {
	fh, err := c.FormFile(imageField)
	if err != nil || fh.Size == 0 {
		return nil, http.StatusOK, nil
	}

	f, err := fh.Open()
	if err != nil {
		logging.New(c.Request.Context()).LogError("upload_image", err)
		return nil, http.StatusBadRequest, err
	}
	defer f.Close()

	img, err := h.svc.UploadImage(c.Request.Context(), auth.APIFromGin(c), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		if errors.Is(err, service.ErrNotAnImage) {
			return nil, http.StatusUnsupportedMediaType, err
		}
		auth.FromGin(c).Observe(err)
		return nil, web.FailureStatus(err), err
	}
	return img, http.StatusOK, nil
}

func (h *Handler) ConfirmDelete(c *gin.Context) {
	web.HTML(c, http.StatusOK, pageDelete, "Delete project", deleteView{ID: c.Param("id")})
}

// Delete issues the single DELETE of a confirmed removal.
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), auth.APIFromGin(c), id); err != nil {
		auth.FromGin(c).Observe(err)
		view := deleteView{ID: id, Error: apiclient.UserMessage(err, service.DeleteFailed)}
		web.HTML(c, web.FailureStatus(err), pageDelete, "Delete project", view)
		return
	}
	c.Redirect(http.StatusSeeOther, "/projects")
}
