package constants

// Property keys recognized in the script-scoped configuration store.
const (
	PropertyAPIKey        = "apiKey"
	PropertyRootFolderIDs = "rootFolderIds"
	PropertyModelName     = "modelName"
)

// DefaultModelName is used when modelName is not configured.
const DefaultModelName = "gemini-2.5-flash"

// ProcessedMarker is the value stored under a file id once it has been renamed.
const ProcessedMarker = "done"

// Property scopes.
const (
	ScopeScript     = "script"
	ScopeUserPrefix = "user:"
)

// UserScope returns the processed-mark scope for the invoking principal.
func UserScope(principal string) string {
	if principal == "" {
		principal = "default"
	}
	return ScopeUserPrefix + principal
}
