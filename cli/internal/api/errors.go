package api

import (
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/dictl-dev/dictl/internal/responses"
)

// ServiceError is a non-2xx answer from the service.
type ServiceError struct {
	StatusCode   int
	Code         string
	Message      string
	OpcRequestID string
	body         string
}

func newServiceError(resp *resty.Response) *ServiceError {
	e := &ServiceError{
		StatusCode:   resp.StatusCode(),
		OpcRequestID: resp.Header().Get(responses.HeaderOpcRequestID),
		body:         string(resp.Body()),
	}

	var body responses.ServiceError
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		e.Code = body.Code
		e.Message = body.Message
	}
	return e
}

func (e *ServiceError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("received unexpected status code: %d, body: %s", e.StatusCode, e.body)
	}

	msg := fmt.Sprintf("received unexpected status code: %d, code: %s, message: %s", e.StatusCode, e.Code, e.Message)
	if e.OpcRequestID != "" {
		msg += fmt.Sprintf(", opc-request-id: %s", e.OpcRequestID)
	}
	return msg
}
