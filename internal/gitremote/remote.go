// Package gitremote derives the GitLab project path from the local
// repository's origin remote.
package gitremote

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"os/exec"
	"strings"

	"github.com/codewandler/pipeman/internal/apperr"
)

// OriginURL runs `git config --get remote.origin.url` in dir.
// An empty dir means the current working directory.
func OriginURL(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "config", "--get", "remote.origin.url")
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// git exits 1 when the key is not set
			return "", &apperr.ResolutionError{Reason: "no remote.origin.url configured"}
		}
		return "", &apperr.ResolutionError{Reason: "cannot run git", Err: err}
	}

	remote := strings.TrimSpace(string(out))
	if remote == "" {
		return "", &apperr.ResolutionError{Reason: "remote.origin.url is empty"}
	}
	return remote, nil
}

// ProjectPath strips scheme, credentials, host and the .git suffix from a
// remote URL. All of the following yield "group/sub/project":
//
//	https://gitlab.example.com/group/sub/project.git
//	ssh://git@gitlab.example.com:2222/group/sub/project.git
//	git@gitlab.example.com:group/sub/project.git
func ProjectPath(remote string) (string, error) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return "", &apperr.ResolutionError{Reason: "empty remote url"}
	}

	var path string
	if strings.Contains(remote, "://") {
		u, err := url.Parse(remote)
		if err != nil {
			return "", &apperr.ResolutionError{Reason: "invalid remote url " + remote, Err: err}
		}
		path = u.Path
	} else {
		// scp-like syntax: [user@]host:path
		_, after, ok := strings.Cut(remote, ":")
		if !ok {
			return "", &apperr.ResolutionError{Reason: "unsupported remote url " + remote}
		}
		path = after
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")
	path = strings.TrimSuffix(path, "/")
	if path == "" || !strings.Contains(path, "/") {
		return "", &apperr.ResolutionError{Reason: "no project path in remote url " + remote}
	}
	return path, nil
}

// CurrentProjectPath combines OriginURL and ProjectPath
func CurrentProjectPath(ctx context.Context, dir string) (string, error) {
	remote, err := OriginURL(ctx, dir)
	if err != nil {
		return "", err
	}
	return ProjectPath(remote)
}
