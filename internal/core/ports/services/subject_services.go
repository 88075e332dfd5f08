package services

import "context"

// SubjectDirectorySvc resolves subject identities against the external
// directory. Both lifecycle operations confirm the subject exists before
// touching application state.
type SubjectDirectorySvc interface {
	// SubjectExists reports whether the subject is known to the directory.
	SubjectExists(ctx context.Context, subjectID string) (bool, error)
}
