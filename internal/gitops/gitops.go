// Package gitops versions the data directory's snapshot files with git.
package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies who commits snapshot changes.
type Author struct {
	Name  string
	Email string
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommitPaths stages paths and commits them. It returns the short commit hash,
// or "" when the paths have no changes to commit.
func CommitPaths(dir string, paths []string, message string, author Author) (string, error) {
	rel := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(dir, p)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", p, err)
		}
		rel[i] = r
	}

	if out, err := git(dir, author, append([]string{"add", "--"}, rel...)...); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// diff --quiet exits 1 when something is staged.
	_, err := git(dir, author, "diff", "--cached", "--quiet")
	if err == nil {
		return "", nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		return "", fmt.Errorf("git diff: %w", err)
	}

	if out, err := git(dir, author, "commit", "--quiet", "-m", message); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := git(dir, author, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func git(dir string, author Author, args ...string) ([]byte, error) {
	full := append([]string{"-c", "user.name=" + author.Name, "-c", "user.email=" + author.Email}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}
