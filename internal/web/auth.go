package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mydb "catalog/internal/db"
	"catalog/internal/models"
)

func (s *server) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", withUser(c, nil))
}

// login accepts a username or an email as identifier.
func (s *server) login(c *gin.Context) {
	ident := strings.TrimSpace(c.PostForm("username"))
	pw := c.PostForm("password")
	if ident == "" || pw == "" {
		c.HTML(http.StatusBadRequest, "login.tmpl", withUser(c, ViewData{"Error": "Fill all fields"}))
		return
	}

	q := s.db.WithContext(c.Request.Context())
	if strings.Contains(ident, "@") {
		q = q.Where("email = ?", ident)
	} else {
		q = q.Where("username = ?", ident)
	}

	var u models.User
	if err := q.First(&u).Error; err != nil || !models.CheckPassword(u.PasswordHash, pw) {
		c.HTML(http.StatusUnauthorized, "login.tmpl", withUser(c, ViewData{"Error": "Wrong username or password"}))
		return
	}

	s.startSession(c, u)
	c.Redirect(http.StatusSeeOther, "/products")
}

func (s *server) registerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.tmpl", withUser(c, nil))
}

func (s *server) register(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	username := strings.TrimSpace(c.PostForm("username"))
	pw := c.PostForm("password")
	form := ViewData{"Email": email, "Username": username}

	fail := func(status int, msg string) {
		c.HTML(status, "register.tmpl", withUser(c, ViewData{"Error": msg, "Form": form}))
	}

	if email == "" || username == "" || pw == "" {
		fail(http.StatusBadRequest, "Fill all fields")
		return
	}

	u, err := mydb.CreateUser(c.Request.Context(), s.db, email, username, pw, models.RoleUser)
	switch {
	case errors.Is(err, mydb.ErrUserExists):
		fail(http.StatusBadRequest, "Username or email already registered")
		return
	case err != nil:
		s.log.Error("register failed", zap.Error(err))
		fail(http.StatusInternalServerError, "Could not create account")
		return
	}

	s.startSession(c, *u)
	c.Redirect(http.StatusSeeOther, "/products")
}

func (s *server) logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *server) startSession(c *gin.Context, u models.User) {
	sess := sessions.Default(c)
	sess.Set(sessionUserKey, u.ID)
	_ = sess.Save()
}
