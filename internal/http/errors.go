package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/guttosm/packgenius/internal/circuitbreaker"
	"github.com/guttosm/packgenius/internal/domain/dto"
	"github.com/guttosm/packgenius/internal/i18n"
	"github.com/guttosm/packgenius/internal/planner"
	"github.com/guttosm/packgenius/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

// jsonFieldName reports validation failures under the JSON field name.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

// writeBindError answers a request whose body or query failed to bind or validate.
func writeBindError(builder *ResponseBuilder, err error) {
	var (
		verrs  validator.ValidationErrors
		valErr *dto.ValidationError
	)
	if errors.As(err, &valErr) {
		writeServiceError(builder, err)
		return
	}
	if errors.As(err, &verrs) {
		builder.ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, validationDetails("", verrs), err)
		return
	}
	builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
}

// validationDetails maps "CalculateRequest.product.length" style namespaces
// onto "product.length" and the failed rule.
func validationDetails(prefix string, verrs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		parts := strings.Split(fe.Namespace(), ".")
		if len(parts) > 1 {
			parts = parts[1:]
		}
		for i, p := range parts {
			parts[i] = lowerFirst(p)
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details[prefix+strings.Join(parts, ".")] = "failed " + rule
	}
	return details
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// writeServiceError maps service, planner and store errors onto HTTP responses.
func writeServiceError(builder *ResponseBuilder, err error) {
	var (
		cfgErr  *planner.ConfigurationError
		boxErr  *service.InvalidBoxError
		valErr  *dto.ValidationError
		sizeErr *http.MaxBytesError
	)

	switch {
	case errors.As(err, &cfgErr):
		details := make(map[string]string, len(cfgErr.Fields))
		for _, f := range cfgErr.Fields {
			details[f.Field] = f.Message
		}
		builder.ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyInvalidConfiguration, details, err)
	case errors.As(err, &valErr):
		builder.ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyInvalidRequest,
			map[string]string{valErr.Field: valErr.Message}, err)
	case errors.As(err, &boxErr):
		builder.ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyInvalidRequest,
			map[string]string{fmt.Sprintf("items[%d]", boxErr.Index): boxErr.Message}, err)
	case errors.As(err, &sizeErr):
		builder.Error(http.StatusRequestEntityTooLarge, i18n.ErrKeyInvalidRequestBody, err)
	case errors.Is(err, service.ErrInventoryBatchSize):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInventoryBatchSize, err)
	case errors.Is(err, service.ErrNoValidRows):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyNoValidRows, err)
	case errors.Is(err, service.ErrInventoryNotFound):
		builder.Error(http.StatusNotFound, i18n.ErrKeyInventoryNotFound, err)
	case errors.Is(err, service.ErrHistoryNotFound):
		builder.Error(http.StatusNotFound, i18n.ErrKeyHistoryNotFound, err)
	case errors.Is(err, context.DeadlineExceeded):
		builder.Error(http.StatusGatewayTimeout, i18n.ErrKeyTimeout, err)
	case isUnavailable(err):
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable, err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

// isUnavailable reports errors that a retry may fix: an open breaker, a
// missing store or a Mongo network failure.
func isUnavailable(err error) bool {
	return errors.Is(err, circuitbreaker.ErrCircuitOpen) ||
		errors.Is(err, service.ErrRepositoryNotConfigured) ||
		mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected)
}
