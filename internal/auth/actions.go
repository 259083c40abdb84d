package auth

// Action constants for authorization checks.
const (
	// ActionRead covers listing and reading programs and their members.
	ActionRead = "read"

	// ActionWrite covers creating, updating and removing programs and memberships.
	ActionWrite = "write"
)

// Object paths evaluated by the authorizer.
const (
	// ObjectPrograms is the collection object (create, list).
	ObjectPrograms = "/programs"
)

// ProgramObject returns the object path for a single program.
func ProgramObject(shortName string) string {
	return ObjectPrograms + "/" + shortName
}
