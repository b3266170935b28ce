package source

import (
	"context"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// cloneOptions builds the clone request for a git source. Tags are fetched
// shallow; a pinned commit needs the full history to check out.
func cloneOptions(src Source, progress io.Writer) *git.CloneOptions {
	opts := &git.CloneOptions{
		URL:      src.Git,
		Progress: progress,
	}

	switch {
	case src.Commit != "":
		// Full clone, checked out below
	case src.Tag != "":
		opts.ReferenceName = plumbing.NewTagReferenceName(src.Tag)
		opts.SingleBranch = true
		opts.Depth = 1
	default:
		opts.SingleBranch = true
		opts.Depth = 1
	}

	return opts
}

// clone checks a git source out into dst
func (f *Fetcher) clone(ctx context.Context, src Source, dst string) error {
	f.logger.Info().Str("git", src.Git).Str("tag", src.Tag).Str("commit", src.Commit).Msg("cloning sources")

	repo, err := git.PlainCloneContext(ctx, dst, false, cloneOptions(src, f.Progress))
	if err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}

	if src.Commit == "" {
		return nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}

	if err := wt.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(src.Commit)}); err != nil {
		return fmt.Errorf("checking out %s: %w", src.Commit, err)
	}
	return nil
}
