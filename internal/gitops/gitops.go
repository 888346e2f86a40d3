// Package gitops puts a CSV book under git so every change to it is reviewable.
package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultAuthor signs commits made by tally itself.
const DefaultAuthor = "Tally <tally@localhost>"

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string) error {
	_, err := git(ctx, dir, "init", "-q")
	return err
}

// CommitAll stages every file in dir and commits it as author ("Name <email>").
// Returns the short commit hash.
func CommitAll(ctx context.Context, dir, message, author string) (string, error) {
	if _, err := git(ctx, dir, "add", "-A"); err != nil {
		return "", err
	}
	// The committer identity may be unset on build machines; reuse the author.
	name, email := splitAuthor(author)
	if _, err := git(ctx, dir, "-c", "user.name="+name, "-c", "user.email="+email, "commit", "-q", "-m", message, "--author", author); err != nil {
		return "", err
	}
	return git(ctx, dir, "rev-parse", "--short", "HEAD")
}

func splitAuthor(author string) (name, email string) {
	name, rest, ok := strings.Cut(author, "<")
	if !ok {
		return strings.TrimSpace(author), ""
	}
	return strings.TrimSpace(name), strings.TrimSuffix(strings.TrimSpace(rest), ">")
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}
