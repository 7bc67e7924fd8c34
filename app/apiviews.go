package app

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fiffu/pushrelay/lib/errs"
	"github.com/fiffu/pushrelay/lib/models"
)

type sendRequest struct {
	DeviceToken string            `json:"deviceToken" validate:"required"`
	Title       string            `json:"title" validate:"required"`
	Body        string            `json:"body" validate:"required"`
	Data        map[string]string `json:"data"`
}

type broadcastRequest struct {
	Title string            `json:"title" validate:"required"`
	Body  string            `json:"body" validate:"required"`
	Data  map[string]string `json:"data"`
}

type saveTokenRequest struct {
	AccountID   string `json:"accountId" validate:"required"`
	DeviceToken string `json:"deviceToken" validate:"required"`
	DeviceInfo  string `json:"deviceInfo"`
}

type sendView struct {
	Message string `json:"message"`
	Result  string `json:"result"`
}

type messageView struct {
	Message string `json:"message"`
}

type notificationsView struct {
	Notifications []models.Notification `json:"notifications"`
}

type errorView struct {
	Error string `json:"error"`
}

// newValidator reports field names by their json tag so rejection messages
// match what the caller actually sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return errs.Wrap(errs.KindValidation, err, "invalid request")
	}

	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, fe.Field())
	}
	return errs.Newf(errs.KindValidation, "%s is required", strings.Join(missing, ", "))
}
