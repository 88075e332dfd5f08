package subjects

import (
	"context"
	"fmt"
	"net/http"
	"time"

	portssvc "github.com/lenddesk/loan_application_app/internal/core/ports/services"
)

// HTTPDirectory resolves subjects against the external directory service.
type HTTPDirectory struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDirectory creates a directory client for the given base URL.
func NewHTTPDirectory(baseURL string) *HTTPDirectory {
	return &HTTPDirectory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Ensure HTTPDirectory implements the SubjectDirectorySvc interface
var _ portssvc.SubjectDirectorySvc = (*HTTPDirectory)(nil)

// SubjectExists issues a HEAD request for the subject resource; 200 means the
// subject is known, 404 means it is not.
func (d *HTTPDirectory) SubjectExists(ctx context.Context, subjectID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, d.baseURL+"/subjects/"+subjectID, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build subject lookup request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("subject directory request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("subject directory returned unexpected status %d", resp.StatusCode)
	}
}

// AllowAllDirectory accepts every subject id. Used when no directory URL is
// configured, typically in local development.
type AllowAllDirectory struct{}

// Ensure AllowAllDirectory implements the SubjectDirectorySvc interface
var _ portssvc.SubjectDirectorySvc = (*AllowAllDirectory)(nil)

func (AllowAllDirectory) SubjectExists(ctx context.Context, subjectID string) (bool, error) {
	return subjectID != "", nil
}
