package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog/internal/catalog"
	"catalog/internal/imagestore"
)

//go:embed views/*.tmpl
var views embed.FS

const sessionName = "catalog_session"

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	DB            *gorm.DB
	Catalog       *catalog.Service
	Images        *imagestore.Store
	Logger        *zap.Logger
	SessionSecret string
	Gatherer      prometheus.Gatherer
}

type server struct {
	db      *gorm.DB
	catalog *catalog.Service
	log     *zap.Logger
}

// NewHandler builds the router. Forms may tunnel PUT and DELETE through POST
// with a _method field.
func NewHandler(d Deps) (http.Handler, error) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	s := &server{db: d.DB, catalog: d.Catalog, log: d.Logger}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"price": func(p decimal.Decimal) string { return p.StringFixed(2) },
	}).ParseFS(views, "views/*.tmpl")
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(requestLogger(d.Logger), gin.Recovery())
	r.SetHTMLTemplate(tmpl)

	r.Static("/product_img", d.Images.Dir())

	store := cookie.NewStore([]byte(d.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/health", s.health)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/products")
	})
	r.GET("/dashboard", s.mustLogin(), func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/products")
	})
	r.GET("/login", s.loginForm)
	r.POST("/login", s.login)
	r.GET("/register", s.registerForm)
	r.POST("/register", s.register)
	r.GET("/logout", s.logout)

	products := r.Group("/products", s.mustLogin())
	products.GET("", s.productIndex)
	products.GET("/create", s.productCreate)
	products.POST("/store", s.productStore)
	products.GET("/:id/edit", s.productEdit)
	products.PUT("/:id/update", s.productUpdate)
	products.DELETE("/:id/delete", s.productDelete)

	admin := r.Group("/admin", s.mustLogin(), mustAdmin())
	admin.GET("/dashboard", s.adminDashboard)

	return methodOverride(r), nil
}

func (s *server) health(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "db": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
