package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fiffu/stockwatch/config"
	"github.com/fiffu/stockwatch/lib"
	"github.com/fiffu/stockwatch/lib/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewAPI(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, svc *lib.Service) *http.Server {
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	srv := &http.Server{Addr: addr, Handler: router(cfg.GetCreds(), log, svc)}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Sugar().Errorw("API server stopped", "err", err)
				}
			}()
			log.Sugar().Infow("API listening", "addr", addr)
			return nil
		},
		OnStop: srv.Shutdown,
	})

	return srv
}

func router(creds map[string]string, log *zap.Logger, svc *lib.Service) http.Handler {
	ctrl := &controller{log, svc}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if len(creds) > 0 {
			r.Use(middleware.BasicAuth("stockwatch", creds))
		} else {
			log.Sugar().Info("Auth is disabled since no credentials are defined")
		}

		r.Post("/cycles", ctrl.triggerCycle)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", ctrl.createUser)
			r.Put("/{user_id}/webhook", ctrl.setWebhook)

			r.Get("/{user_id}/products", ctrl.listProducts)
			r.Post("/{user_id}/products", ctrl.addProduct)
			r.Delete("/{user_id}/products/{product_id}", ctrl.deleteProduct)

			r.Get("/{user_id}/categories", ctrl.listCategories)
			r.Post("/{user_id}/categories", ctrl.addCategory)
			r.Delete("/{user_id}/categories/{category_id}", ctrl.deleteCategory)
			r.Get("/{user_id}/categories/{category_id}/products", ctrl.listCategoryProducts)
		})
	})

	return r
}

type controller struct {
	log *zap.Logger
	svc *lib.Service
}

func (ctrl *controller) reject(w http.ResponseWriter, status int, err error) {
	if err != nil {
		http.Error(w, err.Error(), status)
	} else {
		w.WriteHeader(status)
	}
}

// fail maps service errors onto status codes.
func (ctrl *controller) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lib.ErrInvalidURL):
		ctrl.reject(w, http.StatusBadRequest, err)
	case errors.Is(err, lib.ErrNotFound):
		ctrl.reject(w, http.StatusNotFound, err)
	default:
		ctrl.log.Sugar().Errorw("Request failed", "err", err)
		ctrl.reject(w, http.StatusInternalServerError, err)
	}
}

func (ctrl *controller) resolve(w http.ResponseWriter, status int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		ctrl.log.Sugar().Errorw("Request failed", "err", err)
		ctrl.reject(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

func (ctrl *controller) createUser(w http.ResponseWriter, r *http.Request) {
	user, err := ctrl.svc.CreateUser(r.Context(), r.FormValue("webhook_url"))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusCreated, UserView{}.From(*user))
}

func (ctrl *controller) setWebhook(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlParamID(w, r, "user_id")
	if !ok {
		return
	}
	user, err := ctrl.svc.SetWebhook(r.Context(), userID, r.FormValue("webhook_url"))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, UserView{}.From(*user))
}

func (ctrl *controller) listProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlParamID(w, r, "user_id")
	if !ok {
		return
	}
	products, err := ctrl.svc.ListProducts(r.Context(), userID)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, FromMany[models.Product, ProductView](products))
}

func (ctrl *controller) addProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlParamID(w, r, "user_id")
	if !ok {
		return
	}
	product, err := ctrl.svc.AddProduct(r.Context(), userID, r.FormValue("url"))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusCreated, ProductView{}.From(*product))
}

func (ctrl *controller) deleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlParamID(w, r, "user_id")
	if !ok {
		return
	}
	productID, ok := urlParamID(w, r, "product_id")
	if !ok {
		return
	}
	if err := ctrl.svc.DeleteProduct(r.Context(), userID, productID); err != nil {
		ctrl.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ctrl *controller) listCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlParamID(w, r, "user_id")
	if !ok {
		return
	}
	cats, err := ctrl.svc.ListCategories(r.Context(), userID)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, FromMany[models.Category, CategoryView](cats))
}

func (ctrl *controller) addCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlParamID(w, r, "user_id")
	if !ok {
		return
	}
	cat, err := ctrl.svc.AddCategory(r.Context(), userID, r.FormValue("url"), r.FormValue("webhook_url"))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusCreated, CategoryView{}.From(*cat))
}

func (ctrl *controller) deleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlParamID(w, r, "user_id")
	if !ok {
		return
	}
	categoryID, ok := urlParamID(w, r, "category_id")
	if !ok {
		return
	}
	if err := ctrl.svc.DeleteCategory(r.Context(), userID, categoryID); err != nil {
		ctrl.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ctrl *controller) listCategoryProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlParamID(w, r, "user_id")
	if !ok {
		return
	}
	categoryID, ok := urlParamID(w, r, "category_id")
	if !ok {
		return
	}
	rows, err := ctrl.svc.ListCategoryProducts(r.Context(), userID, categoryID)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, FromMany[models.CategoryProduct, ListingView](rows))
}

func (ctrl *controller) triggerCycle(w http.ResponseWriter, r *http.Request) {
	if !ctrl.svc.TriggerCycle(r.Context()) {
		ctrl.resolve(w, http.StatusConflict, map[string]any{"started": false})
		return
	}
	ctrl.resolve(w, http.StatusAccepted, map[string]any{"started": true})
}

func urlParamID(w http.ResponseWriter, r *http.Request, key string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, key), 10, 64)
	if err != nil || id == 0 {
		http.Error(w, fmt.Sprintf("invalid %s", key), http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
