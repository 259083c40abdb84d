package auth

import (
	"fmt"
	"strings"
)

// Authority naming. Service wide scopes are issued to service operators; program
// scopes mirror the policy provisioned for each program in the identity service.
const (
	ServiceScope  = "PROGRAMSERVICE"
	ProgramPrefix = "PROGRAM-"

	MaskRead  = "READ"
	MaskWrite = "WRITE"
	MaskDeny  = "DENY"
)

// ServiceAuthority returns the service wide authority for a mask.
// Example: ServiceAuthority("WRITE") → "PROGRAMSERVICE.WRITE"
func ServiceAuthority(mask string) string {
	return ServiceScope + "." + mask
}

// ProgramPolicyName returns the identity-service policy name owning a program.
// Example: ProgramPolicyName("TEST-CA") → "PROGRAM-TEST-CA"
func ProgramPolicyName(shortName string) string {
	return ProgramPrefix + shortName
}

// ProgramAuthority returns the scope a token carries for a program policy.
// Example: ProgramAuthority("TEST-CA", "READ") → "PROGRAM-TEST-CA.READ"
func ProgramAuthority(shortName, mask string) string {
	return ProgramPolicyName(shortName) + "." + mask
}

// SplitAuthority splits "POLICY.MASK" into its parts.
func SplitAuthority(authority string) (policy, mask string, err error) {
	idx := strings.LastIndex(authority, ".")
	if idx <= 0 || idx == len(authority)-1 {
		return "", "", fmt.Errorf("invalid authority: %s (expected POLICY.MASK)", authority)
	}
	return authority[:idx], authority[idx+1:], nil
}
