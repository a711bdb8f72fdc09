package main

import (
	"encoding/json"
	"errors"
	"filmorate/proj/internal/domain/errs"
	"filmorate/proj/internal/lib/validator"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (app *Application) extractIDParam(w http.ResponseWriter, r *http.Request, name string) (id int64, extracted bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		app.Http.BadRequest(w, r, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	if id < 1 {
		app.Http.BadRequest(w, r, fmt.Sprintf("%s must be greater than zero", name))
		return 0, false
	}
	return id, true
}

// handleServiceError writes the status matching the error class.
func (app *Application) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		app.Http.BadRequest(w, r, err.Error())
	case errs.KindNotFound:
		app.Http.NotFound(w, r, err.Error())
	case errs.KindConflict:
		app.Http.Conflict(w, r, err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

// readValidJSON decodes the body into dst and runs struct validation on it.
// It writes the error response itself and reports whether the handler should go on.
func (app *Application) readValidJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := app.readJSON(w, r, dst); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return false
	}
	if validationErrs := validator.ValidateStruct(app.validator, dst); validationErrs != nil {
		app.Http.FailedValidation(w, r, validationErrs)
		return false
	}
	return true
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &maxBytesError):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}
