package archive

import (
	"errors"
	"os/exec"

	"github.com/hupe1980/arcrack/internal/status"
)

// SevenZip tests passwords by spawning `7z t <archive> -p<password> -y`
// and inspecting the child's exit status. The password travels as a
// single argument; os/exec performs whatever encoding translation the
// host OS requires (UTF-8 to UTF-16 on Windows). Child output is
// suppressed.
type SevenZip struct {
	// Path is the resolved verifier binary.
	Path string
	// Status receives a warning line per spawn failure; may be nil.
	Status *status.Reporter
}

// Test implements Tester. The child is waited on synchronously; a
// non-zero exit is a reject, and a spawn failure is logged and treated
// as a reject.
func (s *SevenZip) Test(password, archivePath string) bool {
	cmd := exec.Command(s.Path, "t", archivePath, "-p"+password, "-y")
	// Stdout/Stderr stay nil: the child writes to the null device.
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) && s.Status != nil {
			s.Status.Warnf("Failed to run verifier for a candidate: %v", err)
		}
		return false
	}
	return true
}
