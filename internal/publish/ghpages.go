package publish

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path"
	"regexp"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/conn-castle/sitepub/internal/messages"
	"github.com/conn-castle/sitepub/internal/proc"
)

// GithubPagesPublisher commits the site to a branch of a GitHub repository and pushes it.
// A persistent working clone per remote and branch is kept in the cache directory.
//
// Target options: branch, cname, known_hosts.
type GithubPagesPublisher struct {
	env        *Env
	outputPath string
}

// NewGithubPagesPublisher returns a GitHub Pages publisher for outputPath.
func NewGithubPagesPublisher(env *Env, outputPath string) *GithubPagesPublisher {
	return &GithubPagesPublisher{env: env, outputPath: outputPath}
}

var branchPattern = regexp.MustCompile(`^[A-Za-z0-9._/-]+$`)

// Branch returns the branch a target deploys to: the branch option, else "master" for
// user and organization sites (<name>.github.io), else "gh-pages".
func Branch(target Target) string {
	if branch := strings.TrimSpace(target.Option("branch")); branch != "" {
		return branch
	}
	repo := path.Base(strings.Trim(target.URL.Path, "/"))
	if strings.HasSuffix(strings.ToLower(repo), ".github.io") {
		return "master"
	}
	return "gh-pages"
}

func validBranch(branch string) bool {
	return branchPattern.MatchString(branch) &&
		!strings.HasPrefix(branch, "-") &&
		!strings.Contains(branch, "..") &&
		!strings.HasSuffix(branch, ".lock") &&
		!strings.HasSuffix(branch, "/")
}

// Publish deploys the site and streams git's output.
func (p *GithubPagesPublisher) Publish(ctx context.Context, target Target, credentials *Credentials) iter.Seq2[string, error] {
	return stream(func(out *emitter) error {
		return p.publish(ctx, target, ResolveCredentials(target.URL, credentials), out)
	})
}

func (p *GithubPagesPublisher) publish(ctx context.Context, target Target, creds Credentials, out *emitter) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	branch := Branch(target)
	if !validBranch(branch) {
		return configErrorf(messages.PublishBranchInvalidFmt, branch)
	}
	gitExe := p.env.gitExecutable()
	if _, err := p.env.sys().LookPath(gitExe); err != nil {
		return &PublishError{Step: messages.StepInit, Err: fmt.Errorf(messages.PublishExecutableMissingFmt, gitExe)}
	}

	pushURL, _ := remoteURL(target.URL)
	clone, err := p.env.clonePath(pushURL, branch)
	if err != nil {
		return &PublishError{Step: messages.StepPrepareRoot, Err: err}
	}
	if err := os.MkdirAll(clone, 0o755); err != nil {
		return &PublishError{Step: messages.StepPrepareRoot, Err: err}
	}

	lock, err := lockClone(clone+".lock", p.env.lockTimeout())
	if err != nil {
		return &PublishError{Step: messages.StepLock, Err: err}
	}
	defer func() { _ = lock.release() }()

	return p.deploy(ctx, target, creds, branch, clone, out)
}

// deploy runs the git sequence inside a locked working clone. Every step converges, so a
// run that failed halfway is repaired by the next one.
func (p *GithubPagesPublisher) deploy(ctx context.Context, target Target, creds Credentials, branch, clone string, out *emitter) error {
	sys := p.env.sys()
	if err := p.ensureClone(ctx, clone, out); err != nil {
		return err
	}

	sshCmd, err := p.UpdateGitConfig(clone, target, branch, creds)
	if err != nil {
		return &PublishError{Step: messages.StepGitConfig, Err: err}
	}
	var overrides map[string]string
	if sshCmd != "" {
		overrides = map[string]string{"GIT_SSH_COMMAND": sshCmd}
	}
	gitEnv := proc.MergeEnv(sys.Environ(), overrides)
	git := func(args ...string) proc.Cmd {
		return proc.Cmd{Args: append([]string{p.env.gitExecutable()}, args...), Dir: clone, Env: gitEnv}
	}

	// The origin refspec names the branch alone, so fetching a branch the remote does
	// not have yet fails.
	remoteExists, err := remoteBranchExists(ctx, sys, git("ls-remote", "--exit-code", "--heads", "origin", "refs/heads/"+branch))
	if err != nil {
		return err
	}
	if remoteExists {
		if err := out.run(ctx, sys, messages.StepFetch, git("fetch", "--prune", "origin")); err != nil {
			return err
		}
	}
	if err := out.run(ctx, sys, messages.StepCheckout, git("symbolic-ref", "HEAD", "refs/heads/"+branch)); err != nil {
		return err
	}
	if remoteExists {
		if err := out.say(messages.GhpagesUsingBranchFmt, branch); err != nil {
			return err
		}
		if err := out.run(ctx, sys, messages.StepCheckout, git("reset", "-q", "--mixed", "origin/"+branch)); err != nil {
			return err
		}
	} else if err := out.say(messages.GhpagesCreatingBranchFmt, branch); err != nil {
		return err
	}

	if err := out.say(messages.GhpagesSynchronizing); err != nil {
		return err
	}
	if err := syncTree(p.outputPath, clone); err != nil {
		return &PublishError{Step: messages.StepSync, Err: err}
	}
	if err := writeCNAME(clone, target.Option("cname")); err != nil {
		return &PublishError{Step: messages.StepCNAME, Err: err}
	}

	if err := out.run(ctx, sys, messages.StepAdd, git("add", "-A", "-f", ".")); err != nil {
		return err
	}
	changed, err := stagedChanges(ctx, sys, git("diff", "--cached", "--quiet"))
	if err != nil {
		return err
	}
	if changed {
		if err := out.run(ctx, sys, messages.StepCommit, git("commit", "-q", "-m", p.env.commitMessage())); err != nil {
			return err
		}
	} else if err := out.say(messages.GhpagesNothingToCommit); err != nil {
		return err
	}

	head, err := headCommit(clone)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return out.say(messages.GhpagesNothingToPush)
	}
	if err != nil {
		return &PublishError{Step: messages.StepOpenClone, Err: err}
	}

	push := []string{"push"}
	if !remoteExists {
		push = append(push, "--force")
	}
	push = append(push, "origin", branch)
	if err := out.run(ctx, sys, messages.StepPush, git(push...)); err != nil {
		return err
	}
	return out.say(messages.GhpagesDeployedFmt, shortHash(head), target.URL.Redacted())
}

func (p *GithubPagesPublisher) ensureClone(ctx context.Context, clone string, out *emitter) error {
	_, err := gogit.PlainOpen(clone)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gogit.ErrRepositoryNotExists) {
		return &PublishError{Step: messages.StepOpenClone, Err: err}
	}
	if err := out.say(messages.GhpagesInitClone); err != nil {
		return err
	}
	// go-git reads the clone, and it only understands the files ref backend.
	cmd := proc.Cmd{Args: []string{p.env.gitExecutable(), "-c", "init.defaultRefFormat=files", "init", "-q"}, Dir: clone}
	return out.run(ctx, p.env.sys(), messages.StepInit, cmd)
}

// stagedChanges reports whether the index differs from HEAD. git diff --quiet exits 1
// when it does.
func stagedChanges(ctx context.Context, sys System, cmd proc.Cmd) (bool, error) {
	for _, err := range sys.Run(ctx, cmd) {
		if err == nil {
			continue
		}
		if code, ok := proc.ExitCode(err); ok && code == 1 {
			return true, nil
		}
		return false, &PublishError{Step: messages.StepDiff, Err: err}
	}
	return false, nil
}

// remoteBranchExists asks origin for the branch. git ls-remote --exit-code exits 2 when
// no ref matches.
func remoteBranchExists(ctx context.Context, sys System, cmd proc.Cmd) (bool, error) {
	for _, err := range sys.Run(ctx, cmd) {
		if err == nil {
			continue
		}
		if code, ok := proc.ExitCode(err); ok && code == 2 {
			return false, nil
		}
		return false, &PublishError{Step: messages.StepFetch, Err: err}
	}
	return true, nil
}

func headCommit(clone string) (string, error) {
	repo, err := gogit.PlainOpen(clone)
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", err
	}
	return head.Hash().String(), nil
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
