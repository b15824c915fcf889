package domain

import (
	"strings"

	"github.com/google/uuid"
)

const draftPrefix = "draft-"

// NewDraftID returns a disposable client-side placeholder identifier.
// Placeholders exist only so optimistic UI rows have a key before the
// backend confirms the record; they are never sent on create.
func NewDraftID() string {
	return draftPrefix + uuid.NewString()
}

// IsDraftID reports whether id is a placeholder minted by NewDraftID.
func IsDraftID(id string) bool {
	return strings.HasPrefix(id, draftPrefix)
}

// Persisted reports whether id looks backend-issued. Draft placeholders
// are never persisted. For ids of unknown origin the legacy rule
// applies: anything longer than 10 characters is treated as a real
// backend identifier. The length rule is kept for compatibility with
// existing callers that hand-roll short local ids.
func Persisted(id string) bool {
	if id == "" || IsDraftID(id) {
		return false
	}
	return len(id) > 10
}
