package access

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/argo-platform/program-service/internal/identity"
)

// ErrProvisioningFailed matches every *ProvisioningFailedError via errors.Is.
var ErrProvisioningFailed = errors.New("provisioning failed")

// ProvisioningFailedError is returned once a transient identity-service failure
// outlives the retry budget. The triggering program mutation is not rolled back;
// the operation can be re-run from scratch.
type ProvisioningFailedError struct {
	EntityID  uuid.UUID
	ShortName string
	Role      Role // empty for entity level calls such as policy creation
	Call      string
	Cause     identity.ErrorKind
	Attempts  int
	Err       error
}

func (e *ProvisioningFailedError) Error() string {
	target := e.ShortName
	if e.Role != "" {
		target += " role " + string(e.Role)
	}
	return fmt.Sprintf("provisioning failed for program %s (%s): %s: %s after %d attempts: %v",
		target, e.EntityID, e.Call, e.Cause, e.Attempts, e.Err)
}

func (e *ProvisioningFailedError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrProvisioningFailed) true.
func (e *ProvisioningFailedError) Is(target error) bool {
	return target == ErrProvisioningFailed
}
