// Package hxtodoecho mounts a hxtodo Controller on an Echo instance.
//
//	e := echo.New()
//	hxtodoecho.Mount(e, controller, hxtodoecho.WithLive("/live", hub))
//
// Action buttons post to the controller's absolute prefix, so the routes
// are always registered on the root router.
package hxtodoecho

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/hxtodo"
)

// Option configures Mount.
type Option func(*options)

type options struct {
	pagePath string
	livePath string
	live     http.Handler
}

// WithPagePath sets the path the full page is served at. Defaults to "/".
func WithPagePath(path string) Option {
	return func(o *options) {
		o.pagePath = path
	}
}

// WithLive serves the websocket endpoint h at path.
func WithLive(path string, h http.Handler) Option {
	return func(o *options) {
		o.livePath = path
		o.live = h
	}
}

// Mount registers the page, action and live routes of c on e.
func Mount(e *echo.Echo, c *hxtodo.Controller, opts ...Option) {
	o := &options{pagePath: "/"}
	for _, opt := range opts {
		opt(o)
	}

	e.GET(o.pagePath, PageHandler(c))
	e.Any(c.Prefix()+"/*", echo.WrapHandler(c.Handler()))
	if o.live != nil {
		e.GET(o.livePath, echo.WrapHandler(o.live))
	}
}

// PageHandler serves the full page, reloading the list first.
func PageHandler(c *hxtodo.Controller) echo.HandlerFunc {
	return func(ec echo.Context) error {
		return Render(ec, c.Page(ec.Request().Context()))
	}
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return hxtodoecho.Render(c, myTemplate())
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
