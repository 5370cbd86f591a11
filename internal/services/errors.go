// Package services provides the business logic layer between handlers and the
// analytics engines. Services validate requests, run computations, and take
// care of archiving, events and metrics.
package services

// Error codes returned in ServiceError.Code
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidMethod      = "INVALID_METHOD"
	CodeNotFound           = "NOT_FOUND"
	CodeArchiveUnavailable = "ARCHIVE_UNAVAILABLE"
	CodeComputationFailed  = "COMPUTATION_FAILED"
	CodeBlobstoreDisabled  = "BLOBSTORE_DISABLED"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeStorageFailed      = "STORAGE_FAILED"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
