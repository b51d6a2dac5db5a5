package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldAttempt         = "attempt"
	FieldCarBrand        = "car-brand"
	FieldComponent       = "component"
	FieldDelay           = "delay"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldScanID          = "scan-id"
	FieldStack           = "stack"
	FieldStoreDriver     = "store-driver"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
	FieldUserName        = "user-name"
)
