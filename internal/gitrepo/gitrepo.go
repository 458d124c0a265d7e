// Package gitrepo publishes document updates to an existing git repository
// using the system git executable. The repository must already have a
// configured remote, credentials, and at least one commit: updates amend the
// tip commit and force-push it, so history length never grows.
//
// The command-line executable is used instead of a Go git library so the
// process behaves identically to the git the repository was configured with
// (hooks, credential helpers, transport config).
package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Step sentinels let callers tell which git operation failed.
var (
	ErrStage = errors.New("git stage failed")
	ErrAmend = errors.New("git amend failed")
	ErrPush  = errors.New("git push failed")
)

// commitMessageTemplate is the rolling commit's message; the timestamp is
// refreshed on every amend.
const commitMessageTemplate = "Update Now Playing Information\n\nLast updated: %s"

// CommitMessage renders the rolling commit message for the given time.
func CommitMessage(now time.Time) string {
	return fmt.Sprintf(commitMessageTemplate, now.Format("2006-01-02 15:04:05 MST"))
}

// Runner executes git with the given arguments in a working directory and
// returns the combined output. It exists so tests can substitute a fake.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// execRunner shells out to the git executable on PATH.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(out.String()))
	}
	return out.String(), nil
}

// Repo drives one local repository. It is not safe for concurrent use; the
// poll loop is its only caller and runs one cycle at a time.
type Repo struct {
	path   string
	runner Runner
}

// New returns a Repo for the repository at path.
func New(path string) *Repo {
	return &Repo{path: path, runner: execRunner{}}
}

// NewWithRunner returns a Repo with a custom command runner, for tests.
func NewWithRunner(path string, runner Runner) *Repo {
	return &Repo{path: path, runner: runner}
}

// Publish stages the one modified file, amends the tip commit with message,
// and force-pushes the current branch. Each step's failure is wrapped in its
// sentinel with git's own diagnostic attached. On any failure the caller
// must not advance its change-detection state, so the next cycle retries
// the same update.
func (r *Repo) Publish(ctx context.Context, file, message string) error {
	if _, err := r.runner.Run(ctx, r.path, "add", file); err != nil {
		return fmt.Errorf("%w: %v", ErrStage, err)
	}
	if _, err := r.runner.Run(ctx, r.path, "commit", "--amend", "-m", message); err != nil {
		return fmt.Errorf("%w: %v", ErrAmend, err)
	}
	if _, err := r.runner.Run(ctx, r.path, "push", "--force"); err != nil {
		return fmt.Errorf("%w: %v", ErrPush, err)
	}
	return nil
}
