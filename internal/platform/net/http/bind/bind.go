// Package bind decodes request bodies and validates them with go-playground/validator
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	perr "factlens/internal/platform/errors"
	"factlens/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ValidatorSvc holds the shared validator and its english translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce    sync.Once
	vSvc     *ValidatorSvc
	jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam
)

// Get returns the validator, building it on first use
func Get() *ValidatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		trans, _ := ut.New(enLoc, enLoc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		// messages name the json field, not the Go one
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if tag == "" || tag == "-" {
				return fld.Name
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		shortMessage(v, trans, "min", "{0} must be at least {1}")
		shortMessage(v, trans, "max", "{0} must be at most {1}")
		registerWorkerName(v, trans)

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// JSONOptions controls ParseJSON
type JSONOptions struct {
	MaxBytes        int64 // 0 means unlimited
	DisallowUnknown bool
}

func defaultJSONOptions() JSONOptions {
	return JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}
}

// ParseJSON decodes the request body into T and validates it
// malformed, empty or oversized bodies are ErrorCodeJSON; rule failures are ErrorCodeValidation with the field attached
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := defaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("request body close failed")
		}
	}()

	// peek one byte so an empty body gets its own message
	first := make([]byte, 1)
	n, _ := r.Body.Read(first)
	if n == 0 {
		return zero, perr.JSONErrf("empty body")
	}
	var body io.Reader = io.MultiReader(bytes.NewReader(first[:n]), r.Body)
	if o.MaxBytes > 0 {
		body = io.LimitReader(body, o.MaxBytes)
	}

	dec := json.NewDecoder(body)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}
	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := Get().Validator.Struct(dst); err != nil {
		var inv *validator.InvalidValidationError
		if errors.As(err, &inv) {
			logger.C(r.Context()).Error().Err(inv).Msg("validator internal error")
			return zero, perr.JSONErrf("validation error")
		}
		return zero, fieldError(err, "")
	}
	return dst, nil
}

// Validate checks a struct outside a request, e.g. module options
func Validate(v any) error {
	if err := Get().Validator.Struct(v); err != nil {
		return fieldError(err, "")
	}
	return nil
}

// Var checks one value against tag, reporting it as field
func Var(v any, tag, field string) error {
	if err := Get().Validator.Var(v, tag); err != nil {
		return fieldError(err, field)
	}
	return nil
}

func fieldError(err error, field string) error {
	name, msg := ValidationFieldAndMessage(err)
	if name == "" && field != "" {
		name = field
		msg = field + msg
	}
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), name)
}

// ValidationFieldAndMessage returns the first failing field and its translated message
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	return "", err.Error()
}

func shortMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error { return ut.Add(tag, text, true) },
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// workerNameRe is the catalog's worker naming rule
var workerNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func registerWorkerName(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterValidation("worker_name", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && workerNameRe.MatchString(s)
	})
	_ = v.RegisterTranslation("worker_name", trans,
		func(ut ut.Translator) error {
			return ut.Add("worker_name", "{0} must be a lower_snake worker name", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("worker_name", fe.Field())
			return msg
		},
	)
}
