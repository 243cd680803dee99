// Package archive invokes the external archive verifier once per
// candidate password.
package archive

// Tester verifies a single password against an archive. Implementations
// must be stateless and safe for concurrent use; a worker blocks inside
// Test for the duration of one verification.
type Tester interface {
	// Test returns true iff the verifier accepted the password. Any
	// failure to run the verifier is a negative result, not an error.
	Test(password, archivePath string) bool
}
