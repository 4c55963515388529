package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog/internal/catalog"
	"catalog/internal/imagestore"
	"catalog/internal/models"
)

const (
	msgStored  = "Product stored successfully"
	msgUpdated = "Product updated successfully."
	msgDeleted = "Product deleted successfully."
)

// productForm echoes submitted values back into a re-rendered form.
type productForm struct {
	Name        string
	Price       string
	Description string
}

func (s *server) productIndex(c *gin.Context) {
	owner := currentUser(c)
	search := c.Query("search_product")

	items, err := s.catalog.List(c.Request.Context(), owner.ID, search)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "products_index.tmpl", withUser(c, ViewData{
		"Items":  items,
		"Search": search,
		"Flash":  popFlash(c),
	}))
}

func (s *server) productCreate(c *gin.Context) {
	c.HTML(http.StatusOK, "products_form.tmpl", withUser(c, ViewData{
		"Mode":   "create",
		"Form":   productForm{},
		"Errors": map[string]string{},
	}))
}

func (s *server) productStore(c *gin.Context) {
	owner := currentUser(c)
	in := readInput(c, catalog.FieldImage)

	if _, err := s.catalog.Create(c.Request.Context(), owner.ID, in); err != nil {
		s.failForm(c, err, ViewData{"Mode": "create", "Form": echo(in)})
		return
	}

	setFlash(c, msgStored)
	c.Redirect(http.StatusSeeOther, "/products")
}

func (s *server) productEdit(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		notFound(c)
		return
	}

	item, err := s.catalog.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "products_form.tmpl", withUser(c, ViewData{
		"Mode":   "edit",
		"Item":   item,
		"Form":   formOf(item),
		"Errors": map[string]string{},
	}))
}

func (s *server) productUpdate(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		notFound(c)
		return
	}
	owner := currentUser(c)
	in := readInput(c, catalog.FieldNewImage)

	if _, err := s.catalog.Update(c.Request.Context(), owner.ID, id, in); err != nil {
		data := ViewData{"Mode": "edit", "Form": echo(in)}
		// the thumbnail still shows the stored image
		if item, gerr := s.catalog.Get(c.Request.Context(), owner.ID, id); gerr == nil {
			data["Item"] = item
		}
		s.failForm(c, err, data)
		return
	}

	setFlash(c, msgUpdated)
	c.Redirect(http.StatusSeeOther, "/products")
}

func (s *server) productDelete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		notFound(c)
		return
	}

	if err := s.catalog.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		s.fail(c, err)
		return
	}

	setFlash(c, msgDeleted)
	c.Redirect(http.StatusSeeOther, "/products")
}

// readInput collects the product form. A missing file part is not an error;
// browsers send an unselected file input with an empty filename, which
// multipart parsing keeps as a plain value.
func readInput(c *gin.Context, imageField string) catalog.Input {
	in := catalog.Input{
		Name:        c.PostForm("name"),
		Price:       c.PostForm("price"),
		Description: c.PostForm("description"),
	}
	if fh, err := c.FormFile(imageField); err == nil {
		in.Image = imagestore.FromFileHeader(fh)
	}
	return in
}

func productID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func echo(in catalog.Input) productForm {
	return productForm{Name: in.Name, Price: in.Price, Description: in.Description}
}

func formOf(p *models.Product) productForm {
	return productForm{Name: p.Name, Price: p.Price.StringFixed(2), Description: p.Description}
}

// failForm re-renders the product form for validation errors.
func (s *server) failForm(c *gin.Context, err error, data ViewData) {
	var verr *catalog.ValidationError
	if !errors.As(err, &verr) {
		s.fail(c, err)
		return
	}
	data["Errors"] = verr.Fields
	c.HTML(http.StatusUnprocessableEntity, "products_form.tmpl", withUser(c, data))
}

func (s *server) fail(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		notFound(c)
		return
	}
	_ = c.Error(err)
	s.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	renderError(c, http.StatusInternalServerError, "Something went wrong")
}
