package web

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type ViewData map[string]any

// withUser adds the signed in user, if any, to data.
func withUser(c *gin.Context, data ViewData) ViewData {
	if data == nil {
		data = ViewData{}
	}
	if u := currentUser(c); u != nil {
		data["UserName"] = u.Username
		data["IsAdmin"] = u.IsAdmin()
	}
	return data
}

// setFlash stores a message for the next page render only.
func setFlash(c *gin.Context, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg)
	_ = sess.Save()
}

func popFlash(c *gin.Context) string {
	sess := sessions.Default(c)
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return ""
	}
	_ = sess.Save()
	msg, _ := flashes[len(flashes)-1].(string)
	return msg
}

func renderError(c *gin.Context, status int, msg string) {
	c.HTML(status, "error.tmpl", withUser(c, ViewData{"Status": status, "Message": msg}))
}

func notFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "Not found")
}
