package interchange

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// ValidateOptions configures OpenAPI validation.
type ValidateOptions struct {
	// AllowExternalRefs lets the loader resolve $ref values that point at
	// other files or URLs.
	AllowExternalRefs bool
	// Location is the document's own path or URL, used to resolve relative
	// external refs.
	Location string
}

// ValidationResult reports the outcome of validating an OpenAPI document.
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Version string   `json:"version,omitempty"`
	Title   string   `json:"title,omitempty"`
	Paths   int      `json:"paths"`
	Errors  []string `json:"errors,omitempty"`
}

// ValidateOpenAPI loads a JSON or YAML OpenAPI 3 document and validates it.
// A document that fails to load or validate yields a result with Valid set
// to false; the error return is reserved for a done context.
func ValidateOpenAPI(ctx context.Context, data []byte, opts ValidateOptions) (*ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type outcome struct {
		res *ValidationResult
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := validateOpenAPI(ctx, data, opts)
		ch <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-ch:
		return o.res, o.err
	}
}

func validateOpenAPI(ctx context.Context, data []byte, opts ValidateOptions) (*ValidationResult, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = opts.AllowExternalRefs

	var (
		doc *openapi3.T
		err error
	)
	if opts.Location != "" {
		loc, perr := url.Parse(opts.Location)
		if perr != nil {
			return &ValidationResult{Errors: []string{fmt.Sprintf("invalid document location: %v", perr)}}, nil
		}
		doc, err = loader.LoadFromDataWithPath(data, loc)
	} else {
		doc, err = loader.LoadFromData(data)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return &ValidationResult{Errors: []string{fmt.Sprintf("failed to load document: %v", err)}}, nil
	}

	res := &ValidationResult{Version: doc.OpenAPI}
	if doc.Info != nil {
		res.Title = doc.Info.Title
	}
	if doc.Paths != nil {
		res.Paths = doc.Paths.Len()
	}

	if err := doc.Validate(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		res.Errors = flattenValidationErrors(err)
		return res, nil
	}
	res.Valid = true
	return res, nil
}

func flattenValidationErrors(err error) []string {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		out := make([]string, 0, len(multi))
		for _, e := range multi {
			out = append(out, flattenValidationErrors(e)...)
		}
		return out
	}
	return []string{err.Error()}
}

// Validation is an OpenAPI validation running in the background. Cancel
// abandons it; nothing is mutated either way.
type Validation struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	result *ValidationResult
	err    error
}

// StartOpenAPIValidation starts validating data and returns at once. The
// document is copied, so the caller may reuse data.
func StartOpenAPIValidation(ctx context.Context, data []byte, opts ValidateOptions) *Validation {
	ctx, cancel := context.WithCancel(ctx)
	v := &Validation{cancel: cancel, done: make(chan struct{})}
	doc := append([]byte(nil), data...)

	go func() {
		defer close(v.done)
		defer cancel()
		v.result, v.err = ValidateOpenAPI(ctx, doc, opts)
	}()
	return v
}

// Wait blocks until the validation finishes or is canceled. A canceled
// validation returns context.Canceled.
func (v *Validation) Wait() (*ValidationResult, error) {
	<-v.done
	return v.result, v.err
}

// Done is closed when the validation finishes.
func (v *Validation) Done() <-chan struct{} {
	return v.done
}

// Cancel abandons the validation. It is safe to call more than once.
func (v *Validation) Cancel() {
	v.once.Do(v.cancel)
}
