package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/services"
)

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

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
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // ошибка программиста: dst не указатель
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	w.Header().Set("Content-Type", models.ContentType)
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, status int, detail string) {
	doc := models.ErrorDocument{
		Errors: []models.ErrorObject{{
			Status: strconv.Itoa(status),
			Title:  http.StatusText(status),
			Detail: detail,
		}},
	}
	if err := writeJSON(w, status, doc); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func badRequestResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusNotFound, "the requested resource could not be found")
}

func conflictResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusConflict, err.Error())
}

// serverErrorResponse логирует причину, но наружу отдаёт конверт без
// detail: внутренности не утекают.
func serverErrorResponse(w http.ResponseWriter, err error) {
	slog.Error("internal server error", slog.Any("error", err))
	errorResponse(w, http.StatusInternalServerError, "")
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы.
func mapServiceErrorToHTTP(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrHackNotFound),
		errors.Is(err, services.ErrChallengeNotFound),
		errors.Is(err, services.ErrAttendeeNotFound):
		notFoundResponse(w)

	case errors.Is(err, services.ErrTeamConflict),
		errors.Is(err, services.ErrUserConflict),
		errors.Is(err, services.ErrHackConflict),
		errors.Is(err, services.ErrChallengeConflict),
		errors.Is(err, services.ErrAttendeeConflict):
		conflictResponse(w, err)

	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrIDRequired),
		errors.Is(err, services.ErrInvalidResourceType),
		errors.Is(err, services.ErrDuplicateMemberID),
		errors.Is(err, services.ErrMemberAlreadyInRelation),
		errors.Is(err, services.ErrUnknownMember),
		errors.Is(err, services.ErrMemberNotInRelation),
		errors.Is(err, services.ErrUserAlreadyInTeam),
		errors.Is(err, services.ErrHackAlreadyEntered),
		errors.Is(err, services.ErrChallengeAlreadyClaimed),
		errors.Is(err, services.ErrTeamNotEmpty),
		errors.Is(err, services.ErrHackHasEntries),
		errors.Is(err, services.ErrLogoInvalidFormat):
		badRequestResponse(w, err)

	case errors.Is(err, services.ErrLogoStorageDisabled):
		errorResponse(w, http.StatusServiceUnavailable, err.Error())

	default:
		serverErrorResponse(w, err)
	}
}

// decodeResourceDocument разбирает тело вида {"data": {...}} и проверяет
// дискриминатор типа до какой-либо дальнейшей обработки.
func decodeResourceDocument(w http.ResponseWriter, r *http.Request, expectedType string) (*models.Resource, error) {
	var doc models.Document
	if err := readJSON(w, r, &doc); err != nil {
		return nil, err
	}
	if doc.Data == nil {
		return nil, errors.New("body must contain a data member")
	}
	if doc.Data.Type != expectedType {
		return nil, fmt.Errorf("%w: expected %q, got %q", services.ErrInvalidResourceType, expectedType, doc.Data.Type)
	}
	return doc.Data, nil
}

type relationshipInput struct {
	Data *[]models.ResourceIdentifier `json:"data"`
}

// decodeRelationshipDocument разбирает {"data": [{"type","id"}, ...]}.
// Несовпадение типа любого элемента отклоняется до обращений к хранилищу.
func decodeRelationshipDocument(w http.ResponseWriter, r *http.Request, expectedType string) ([]string, error) {
	var input relationshipInput
	if err := readJSON(w, r, &input); err != nil {
		return nil, err
	}
	if input.Data == nil {
		return nil, errors.New("body must contain a data member")
	}

	ids := make([]string, 0, len(*input.Data))
	for _, identifier := range *input.Data {
		if identifier.Type != expectedType {
			return nil, fmt.Errorf("%w: expected %q, got %q", services.ErrInvalidResourceType, expectedType, identifier.Type)
		}
		ids = append(ids, identifier.ID)
	}
	return ids, nil
}

func attrString(attributes map[string]interface{}, key string) string {
	if attributes == nil {
		return ""
	}
	if value, ok := attributes[key].(string); ok {
		return value
	}
	return ""
}

func snapshotsToResources(snaps []models.Snapshot) []models.Resource {
	resources := make([]models.Resource, 0, len(snaps))
	for _, snap := range snaps {
		resources = append(resources, snap.Resource())
	}
	return resources
}

func snapshotsToIdentifiers(snaps []models.Snapshot) []models.ResourceIdentifier {
	identifiers := make([]models.ResourceIdentifier, 0, len(snaps))
	for _, snap := range snaps {
		identifiers = append(identifiers, snap.Identifier())
	}
	return identifiers
}
