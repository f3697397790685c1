package chi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domstate "github.com/kailas-cloud/carelens/internal/domain/state"
)

// SelectionRequest is the body of POST /api/v1/selection.
// An absent field is left unchanged; an empty string clears it.
type SelectionRequest struct {
	CountyFips *string `json:"countyFips" validate:"omitempty,max=16"`
	ProviderID *string `json:"providerId" validate:"omitempty,max=16"`
}

// FilterRequest is the body of POST /api/v1/filter.
type FilterRequest struct {
	TopN      *int      `json:"topN" validate:"omitempty,min=1,max=50"`
	Ownership *[]string `json:"ownership" validate:"omitempty,max=64,dive,max=128"`
	Search    *string   `json:"search" validate:"omitempty,max=256"`
}

func (r SelectionRequest) patch() (domstate.Patch, error) {
	p, err := domstate.New(domstate.Fields{CountyKey: r.CountyFips, ProviderKey: r.ProviderID})
	if err != nil {
		return domstate.Patch{}, fmt.Errorf("selection: %w", err)
	}
	return p, nil
}

func (r FilterRequest) patch() (domstate.Patch, error) {
	p, err := domstate.New(domstate.Fields{TopN: r.TopN, Ownership: r.Ownership, SearchText: r.Search})
	if err != nil {
		return domstate.Patch{}, fmt.Errorf("filter: %w", err)
	}
	return p, nil
}

// validationFailure describes the first failing field of a request.
type validationFailure struct {
	Code    ErrorCode
	Message string
}

func validateRequest(v *validator.Validate, req any) *validationFailure {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &validationFailure{Code: CodeBadRequest, Message: "invalid request"}
	}
	fe := verrs[0]
	code := CodeValidationFailed
	if fe.Field() == "topN" {
		code = CodeInvalidTopN
	}
	return &validationFailure{Code: code, Message: formatValidationError(fe)}
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, strings.ToLower(err.Tag()))
	}
}

// newValidator reports JSON field names in validation errors.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
