package publish

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// clonePath returns the persistent working clone for a push URL and branch.
// Distinct remotes or branches never share a clone.
func (e *Env) clonePath(pushURL, branch string) (string, error) {
	root, err := e.cacheRoot()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(pushURL + "\x00" + branch))
	return filepath.Join(root, "ghpages", cloneSlug(pushURL)+"-"+hex.EncodeToString(sum[:8])), nil
}

// cloneSlug keeps the repository name readable in the cache directory.
func cloneSlug(pushURL string) string {
	name := strings.TrimSuffix(pushURL, ".git")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, name)
	if slug == "" || strings.Trim(slug, ".") == "" {
		return "site"
	}
	return slug
}

// syncTree replaces everything in the clone except .git with the contents of src.
// src may itself be a symlink to the output directory.
func syncTree(src, clone string) error {
	root, err := filepath.EvalSymlinks(src)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(clone)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(clone, entry.Name())); err != nil {
			return err
		}
	}
	return copyTree(root, clone)
}

// copyTree copies src into dst, keeping symlinks as links and skipping build metadata.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.Name() == MetadataDir || rel == ".git" {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case info.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case info.Mode().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		}
		return nil
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// writeCNAME writes the custom domain file. The clone was just cleared, so an unset
// cname leaves no stale file behind.
func writeCNAME(clone, cname string) error {
	if cname == "" {
		return nil
	}
	return os.WriteFile(filepath.Join(clone, "CNAME"), []byte(cname), 0o644)
}
