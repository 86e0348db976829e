package server

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// fieldError is one entry of a 422 detail list.
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// Validation errors name fields by their JSON key.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func bindingDetail(err error) []fieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fieldError{
				Loc:  []string{"body", fe.Field()},
				Msg:  validationMessage(fe),
				Type: "value_error." + fe.Tag(),
			})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []fieldError{{
			Loc:  []string{"body", typeErr.Field},
			Msg:  "expected " + typeErr.Type.String(),
			Type: "type_error",
		}}
	}

	return []fieldError{{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error.jsondecode"}}
}

func validationMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "field required"
	}
	return "failed on " + fe.Tag()
}
