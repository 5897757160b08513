package web

import (
	"errors"
	"net/http"

	"github.com/taskfolio/taskfolio-web/internal/apiclient"
)

// FailureStatus maps a failed backend call to the status of the re-rendered
// page: backend 4xx pass through, everything else is a bad gateway.
func FailureStatus(err error) int {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}
