package catalog

import (
	"net/http"

	"RocketShoes/pkg/kit"
)

// NewHandler serves the catalog and stock routes behind the shared kit stack.
func NewHandler(s *Server, deps kit.RouterDeps) http.Handler {
	r := kit.NewRouter(deps)
	r.Mount("/", s.Routes())
	return r
}
