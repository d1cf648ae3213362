package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"RocketShoes/internal/notify"
	"RocketShoes/internal/storage"
	"RocketShoes/pkg/kit"
)

const readyTimeout = 1 * time.Second

type Server struct {
	Cart  *Container
	Feed  *notify.Feed
	Store storage.Store
	Log   *zap.Logger

	validate *validator.Validate
}

func (s *Server) Routes() http.Handler {
	s.validate = validator.New(validator.WithRequiredStructEnabled())

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Route("/cart", func(rr chi.Router) {
		rr.Get("/", s.get)
		rr.Get("/summary", s.summary)
		rr.Get("/events", s.events)
		rr.Post("/products", s.add)
		rr.Put("/products/{id}", s.updateAmount)
		rr.Delete("/products/{id}", s.remove)
	})

	r.Get("/notifications", s.notifications)

	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Cart.Cart())
}

type summaryResp struct {
	Size    int           `json:"size"`
	Amounts map[int64]int `json:"amounts"`
}

// summary is what the header badge and product listing read: the number of
// distinct products and the quantity per product id.
func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	c := s.Cart.Cart()
	kit.WriteJSON(w, http.StatusOK, summaryResp{Size: c.Size(), Amounts: c.Amounts()})
}

type addReq struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var req addReq
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.Cart.AddProduct(r.Context(), req.ProductID); err != nil {
		s.writeOpError(w, r, err, MsgAddFailed)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Cart.Cart())
}

type updateAmountReq struct {
	Amount *int `json:"amount" validate:"required"`
}

func (s *Server) updateAmount(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req updateAmountReq
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.Cart.UpdateProductAmount(r.Context(), UpdateAmount{ProductID: id, Amount: *req.Amount}); err != nil {
		s.writeOpError(w, r, err, MsgUpdateFailed)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Cart.Cart())
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := s.Cart.RemoveProduct(r.Context(), id); err != nil {
		s.writeOpError(w, r, err, MsgRemoveFailed)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Cart.Cart())
}

func (s *Server) notifications(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Feed.Drain())
}

// events streams the cart as server-sent events: the current cart first, then
// one event per published change. Slow readers only see the latest cart.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	updates := make(chan Cart, 1)
	cancel := s.Cart.Subscribe(func(c Cart) {
		select {
		case <-updates:
		default:
		}
		updates <- c
	})
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, rc, s.Cart.Cart()); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case c := <-updates:
			if err := writeEvent(w, rc, c); err != nil {
				if s.Log != nil {
					s.Log.Debug("cart event stream closed", zap.Error(err))
				}
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, c Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: cart\ndata: %s\n\n", b); err != nil {
		return err
	}
	return rc.Flush()
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := kit.DecodeJSON(w, r, dst); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid request", validationDetails(err))
		return false
	}
	return true
}

func validationDetails(err error) map[string]any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]any{"cause": err.Error()}
	}
	fields := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product id", map[string]any{"id": raw})
		return 0, false
	}
	return id, true
}

// writeOpError answers with the same text the user was shown as a toast.
func (s *Server) writeOpError(w http.ResponseWriter, r *http.Request, err error, failMsg string) {
	switch {
	case errors.Is(err, ErrStockExceeded):
		kit.WriteError(w, r, http.StatusConflict, MsgStockExceeded, nil)
	case errors.Is(err, ErrNotInCart):
		kit.WriteError(w, r, http.StatusNotFound, failMsg, nil)
	case errors.Is(err, ErrUpstream):
		kit.WriteError(w, r, http.StatusBadGateway, failMsg, nil)
	default:
		kit.WriteError(w, r, http.StatusInternalServerError, failMsg, nil)
	}
}
