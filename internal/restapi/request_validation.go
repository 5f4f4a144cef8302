package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/utils"
)

// maxBodyBytes caps JSON request bodies. A navigation token is at most 64 bytes.
const maxBodyBytes = 4 << 10

var validate = validator.New()

// requireUser reads and validates the "user" query parameter. On failure it
// has already written a 400 response.
func (api *RestAPI) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	user := r.URL.Query().Get("user")
	if err := utils.ValidateID(user); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"user": {err.Error()},
		})
		return "", false
	}
	return user, true
}

// decodeJSONBody decodes one JSON object into dst and validates its struct
// tags. On failure it has already written a 400 response.
func (api *RestAPI) decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		msg := "request body must be a JSON object"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			msg = fmt.Sprintf("request body must not be larger than %d bytes", maxBodyBytes)
		} else if errors.Is(err, io.EOF) {
			msg = "request body must not be empty"
		}
		api.validationErrorResponse(w, r, map[string][]string{"body": {msg}})
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			api.validationErrorResponse(w, r, map[string][]string{"body": {err.Error()}})
			return false
		}
		fieldErrors := make(map[string][]string)
		for _, fe := range validationErrs {
			field := jsonFieldName(fe)
			fieldErrors[field] = append(fieldErrors[field], validationMessage(fe))
		}
		api.validationErrorResponse(w, r, fieldErrors)
		return false
	}
	return true
}

func jsonFieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Token":
		return "token"
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", jsonFieldName(fe))
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", jsonFieldName(fe), fe.Param())
	}
	return fmt.Sprintf("%s failed the %s check", jsonFieldName(fe), fe.Tag())
}
