package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fiffu/pushrelay/config"
	"github.com/fiffu/pushrelay/lib"
	"github.com/fiffu/pushrelay/lib/errs"
	"github.com/fiffu/pushrelay/lib/models"
)

// Server sends are tagged with a fixed navigation hint; clients interpret it,
// we just pass it through.
const defaultTargetActivity = "TargetActivityName"

func NewAPI(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, svc *lib.Service) *http.Server {
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	srv := &http.Server{Addr: addr, Handler: Router(cfg, log, svc)}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go srv.ListenAndServe()
			return nil
		},
		OnStop: srv.Shutdown,
	})

	return srv
}

// Router exposes the relay's inbound surface. There is deliberately no auth
// on these routes; anyone who can reach the service can send.
func Router(cfg *config.Config, log *zap.Logger, svc *lib.Service) http.Handler {
	ctrl := newController(log, svc)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Post("/send", ctrl.sendToDevice)
	r.Post("/send/all", ctrl.sendToAll)
	r.Post("/send/account/{accountId}", ctrl.sendToAccount)
	r.Get("/notifications/{accountId}", ctrl.listNotifications)
	r.Post("/device-tokens", ctrl.saveDeviceToken)
	r.Delete("/device-tokens/{accountId}/{deviceToken}", ctrl.deleteDeviceToken)

	return r
}

type controller struct {
	log      *zap.Logger
	svc      *lib.Service
	validate *validator.Validate
}

func newController(log *zap.Logger, svc *lib.Service) *controller {
	return &controller{log, svc, newValidator()}
}

func (ctrl *controller) reject(w http.ResponseWriter, err error) {
	ctrl.rejectStatus(w, errs.HTTPStatus(err), err)
}

func (ctrl *controller) rejectStatus(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorView{Error: err.Error()})
}

func (ctrl *controller) resolve(w http.ResponseWriter, status int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		ctrl.rejectStatus(w, http.StatusInternalServerError, err)
		ctrl.log.Sugar().Errorw("Request failed", "err", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

// decode unmarshals the body into the request view and applies its validate
// tags; failures come back as validation errors for a 400 response.
func (ctrl *controller) decode(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return errs.Wrap(errs.KindValidation, err, "invalid request body")
	}
	if err := ctrl.validate.Struct(into); err != nil {
		return validationError(err)
	}
	return nil
}

func (ctrl *controller) sendToDevice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req sendRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, err)
		return
	}

	result, err := ctrl.svc.SendToDevice(ctx, req.Title, req.Body, req.DeviceToken, defaultTargetActivity, req.Data)
	if err != nil {
		ctrl.reject(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, sendView{Message: "Notification sent successfully.", Result: result})
}

func (ctrl *controller) sendToAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req broadcastRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, err)
		return
	}

	report, err := ctrl.svc.SendToAll(ctx, req.Title, req.Body, defaultTargetActivity, req.Data)
	if err != nil {
		ctrl.reject(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, report)
}

func (ctrl *controller) sendToAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := chi.URLParam(r, "accountId")

	var req broadcastRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, err)
		return
	}

	report, err := ctrl.svc.SendToAccount(ctx, accountID, req.Title, req.Body, defaultTargetActivity, req.Data)
	if err != nil {
		ctrl.reject(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, report)
}

func (ctrl *controller) listNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := chi.URLParam(r, "accountId")

	records, err := ctrl.svc.Notifications(ctx, accountID)
	if err != nil {
		ctrl.reject(w, err)
		return
	}
	if records == nil {
		records = []models.Notification{}
	}
	ctrl.resolve(w, http.StatusOK, notificationsView{Notifications: records})
}

func (ctrl *controller) saveDeviceToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req saveTokenRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, err)
		return
	}

	if err := ctrl.svc.RegisterDeviceToken(ctx, req.AccountID, req.DeviceToken, req.DeviceInfo); err != nil {
		ctrl.reject(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, messageView{Message: "Device token saved successfully."})
}

func (ctrl *controller) deleteDeviceToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := chi.URLParam(r, "accountId")
	deviceToken := chi.URLParam(r, "deviceToken")

	if err := ctrl.svc.RemoveDeviceToken(ctx, accountID, deviceToken); err != nil {
		ctrl.reject(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, messageView{Message: "Device token deleted successfully."})
}
