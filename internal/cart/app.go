package cart

import (
	"net/http"

	"RocketShoes/pkg/kit"
)

type HTTPDeps struct {
	kit.RouterDeps

	// APIURL, when set, is proxied under /products so the UI can list the
	// catalog through the same origin.
	APIURL string
}

func NewHandler(s *Server, deps HTTPDeps) (http.Handler, error) {
	r := kit.NewRouter(deps.RouterDeps)

	if deps.APIURL != "" {
		proxy, err := kit.NewReverseProxy(deps.APIURL, deps.Log)
		if err != nil {
			return nil, err
		}
		r.Handle("/products", proxy)
		r.Handle("/products/*", proxy)
	}

	r.Mount("/", s.Routes())
	return r, nil
}
