package builder

import (
	"fmt"
	"os/exec"
	"strings"
)

// Commit stages both knowledge files and commits them with the given
// message. A clean tree is not an error; callers treat any other failure
// as non-fatal, since the file writes already happened.
func (b *Builder) Commit(message string) error {
	if b.repoDir == "" {
		return nil
	}

	if err := b.git("add", b.compliancePath, b.vettingPath); err != nil {
		return err
	}

	err := b.git("commit", "-m", message)
	if err != nil && strings.Contains(err.Error(), "nothing to commit") {
		return nil
	}
	return err
}

func (b *Builder) git(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = b.repoDir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}
