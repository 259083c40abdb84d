package identity

// Mask is a permission level a policy grants to a group.
type Mask string

const (
	MaskRead  Mask = "READ"
	MaskWrite Mask = "WRITE"
	MaskDeny  Mask = "DENY"
)

// Valid reports whether m is one of the masks the identity service accepts.
func (m Mask) Valid() bool {
	switch m {
	case MaskRead, MaskWrite, MaskDeny:
		return true
	}
	return false
}

// StatusApproved is the status new groups are created with.
const StatusApproved = "APPROVED"

// Group is a named set of users.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Policy is a named access-control object granting masks to groups.
type Policy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PolicyGroup is a group together with the mask a policy grants it.
type PolicyGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Mask Mask   `json:"mask"`
}

// User is an identity-service account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Status    string `json:"status,omitempty"`
	Type      string `json:"type,omitempty"`
}

// ListOptions selects a window of a list endpoint. Query is a free-text filter
// interpreted by the identity service (substring match on names and emails).
type ListOptions struct {
	Offset int
	Limit  int
	Query  string
}

// Page is one window of a list endpoint.
type Page[T any] struct {
	Limit     int `json:"limit"`
	Offset    int `json:"offset"`
	Count     int `json:"count"`
	ResultSet []T `json:"resultSet"`
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type createPolicyRequest struct {
	Name string `json:"name"`
}

type maskRequest struct {
	Mask Mask `json:"mask"`
}
