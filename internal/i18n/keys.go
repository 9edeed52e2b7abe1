package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyUnauthorized indicates missing or invalid authentication.
	ErrKeyUnauthorized = "error.unauthorized"
	// ErrKeyAPIKeyRequired indicates that an API key is required.
	ErrKeyAPIKeyRequired = "error.api_key_required"
	// ErrKeyInvalidAPIKey indicates an invalid API key.
	ErrKeyInvalidAPIKey = "error.invalid_api_key"
	// ErrKeyForbidden indicates insufficient permissions.
	ErrKeyForbidden = "error.forbidden"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict indicates a conflict with current state.
	ErrKeyConflict = "error.conflict"
	// ErrKeyInvalidToken indicates an invalid or expired JWT token.
	ErrKeyInvalidToken = "error.invalid_token"
	// ErrKeyTokenRequired indicates that a JWT token is required.
	ErrKeyTokenRequired = "error.token_required"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyServiceUnavailable indicates a backing store is unreachable.
	ErrKeyServiceUnavailable = "error.service_unavailable"
	// ErrKeyInvalidConfiguration indicates the planner rejected its input.
	ErrKeyInvalidConfiguration = "error.invalid_configuration"
	// ErrKeyInventoryNotFound indicates an unknown carton id.
	ErrKeyInventoryNotFound = "error.inventory_not_found"
	// ErrKeyHistoryNotFound indicates an unknown history entry.
	ErrKeyHistoryNotFound = "error.history_not_found"
	// ErrKeyInventoryBatchSize indicates an empty or oversized upsert batch.
	ErrKeyInventoryBatchSize = "error.inventory_batch_size"
	// ErrKeyNoValidRows indicates a CSV import without a single usable row.
	ErrKeyNoValidRows = "error.csv_no_valid_rows"
)

// Success message translation keys.
const (
	// SuccessKeyPlanCalculated indicates a completed packaging plan.
	SuccessKeyPlanCalculated = "success.plan_calculated"
)

// Advisory fallback translation keys.
const (
	AnalysisKeyUnavailable   = "analysis.unavailable"
	AnalysisKeyNoMaterial    = "analysis.no_material"
	AnalysisKeyReasonConnect = "analysis.reason.connect"
	AnalysisKeyReasonAPIKey  = "analysis.reason.api_key"
	AnalysisKeyReasonValid   = "analysis.reason.still_valid"
	// PromptKeyLanguage names the reply language inside the advisory prompt.
	PromptKeyLanguage = "prompt.language"
)
