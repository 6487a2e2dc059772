package constants

const (
	// MAX_CATEGORIES_PER_PUSH caps the width of one tree snapshot
	MAX_CATEGORIES_PER_PUSH = 500

	// MAX_BINDINGS_PER_REQUEST caps the size of one external-id batch
	MAX_BINDINGS_PER_REQUEST = 1000

	// DEFAULT_AUDIT_LIMIT is the page size for audit record listings
	DEFAULT_AUDIT_LIMIT = 100

	// UNKNOWN_ACTOR is recorded when a deletion request does not identify
	// the acting owner
	UNKNOWN_ACTOR = "unknown"
)
