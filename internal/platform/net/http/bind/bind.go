// Package bind decodes request bodies into typed inputs and validates them
package bind

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	perr "xfriends/internal/platform/errors"

	"github.com/bytedance/sonic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator pairs the shared validate instance with its english translator
type Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

var txHash = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// Get returns the process-wide validator
var Get = sync.OnceValue(newValidator)

func newValidator() *Validator {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	val := &Validator{v: v, trans: trans}
	val.message("min", "{0} must be at least {1}", true)
	val.message("max", "{0} must be at most {1}", true)

	_ = v.RegisterValidation("evm_address", func(fl validator.FieldLevel) bool {
		return common.IsHexAddress(fl.Field().String())
	})
	_ = v.RegisterValidation("tx_hash", func(fl validator.FieldLevel) bool {
		return txHash.MatchString(fl.Field().String())
	})
	val.message("evm_address", "{0} must be a valid address", false)
	val.message("tx_hash", "{0} must be a valid transaction hash", false)
	return val
}

// jsonName makes validation messages speak the wire field names
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func (val *Validator) message(tag, text string, withParam bool) {
	_ = val.v.RegisterTranslation(tag, val.trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			args := []string{fe.Field()}
			if withParam {
				args = append(args, fe.Param())
			}
			msg, _ := t.T(tag, args...)
			return msg
		},
	)
}

// Struct validates v and returns the first failure as a validation error carrying its field
func (val *Validator) Struct(v any) error {
	err := val.v.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		fe := fields[0]
		return perr.WithField(perr.Validationf("%s", fe.Translate(val.trans)), fe.Field())
	}
	return perr.Wrap(err, perr.ErrorCodeUnknown, "validation error")
}

// Options tunes ParseJSON
type Options struct {
	MaxBytes     int64
	AllowUnknown bool
	AllowEmpty   bool
}

// DefaultMaxBytes caps request bodies at 1MB
const DefaultMaxBytes = 1 << 20

var dec = sonic.ConfigStd

// ParseJSON decodes exactly one JSON value into T and validates it
func ParseJSON[T any](r *http.Request, opts ...Options) (T, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}

	var out T
	if r.Body == nil || r.Body == http.NoBody {
		if o.AllowEmpty {
			return out, nil
		}
		return out, perr.JSONErrf("Request body is required")
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, o.MaxBytes+1))
	if err != nil {
		return out, perr.Wrap(err, perr.ErrorCodeJSON, "Failed to read request body")
	}
	if int64(len(body)) > o.MaxBytes {
		return out, perr.JSONErrf("Request body too large")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if o.AllowEmpty {
			return out, nil
		}
		return out, perr.JSONErrf("Request body is required")
	}

	d := dec.NewDecoder(bytes.NewReader(body))
	if !o.AllowUnknown {
		d.DisallowUnknownFields()
	}
	if err := d.Decode(&out); err != nil {
		return out, perr.Wrap(err, perr.ErrorCodeJSON, "Invalid JSON body")
	}
	if d.More() {
		return out, perr.JSONErrf("Invalid JSON body")
	}
	if err := Get().Struct(out); err != nil {
		return out, err
	}
	return out, nil
}
