package kit

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"
)

// NewReverseProxy forwards requests unchanged to target. Upstream failures
// become a JSON 502.
func NewReverseProxy(target string, log *zap.Logger) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	p := httputil.NewSingleHostReverseProxy(u)
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		if log != nil {
			log.Warn("upstream request failed", zap.String("target", target), zap.String("path", r.URL.Path), zap.Error(err))
		}
		WriteError(w, r, http.StatusBadGateway, "upstream unavailable", nil)
	}
	return p, nil
}
