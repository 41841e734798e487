// Package version rewrites the shared version of a workspace.
//
// A bump touches every manifest `version` field, every in-workspace
// dependency requirement and the version references in documentation. All
// edits are computed and pre-checked before the first write; if a write still
// fails, files already written are restored.
package version

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/zjrosen/releasetrain/internal/log"
	"github.com/zjrosen/releasetrain/internal/workspace"
)

// Options configures a bump.
type Options struct {
	Target string
	// Old is the expected current version. Empty infers it from the first package.
	Old string
	// Packages limits the bump to a subset, in order. Empty means every package.
	Packages []string
	// DocFiles are workspace-relative documents whose references move too.
	DocFiles []string
	DryRun   bool
}

// FileKind distinguishes manifests from documents.
type FileKind string

// File kinds.
const (
	FileManifest FileKind = "manifest"
	FileDoc      FileKind = "doc"
)

// FileChange describes the edits to one file.
type FileChange struct {
	Path    string // relative to the workspace root
	Kind    FileKind
	Changes []Change
	Diff    string // set for dry runs
}

// BumpResult reports what a bump changed or, for a dry run, would change.
type BumpResult struct {
	Old       string
	New       string
	Packages  []string
	Files     []FileChange
	Unchanged []string // documents without any reference
	Warnings  []string
	Downgrade bool
	DryRun    bool
}

// Store performs version bumps on a loaded workspace.
type Store struct {
	ws *workspace.Workspace
	fs afero.Fs
}

// NewStore creates a store over the workspace's filesystem.
func NewStore(ws *workspace.Workspace) *Store {
	return &Store{ws: ws, fs: ws.Fs()}
}

// fileEdit is a pending write.
type fileEdit struct {
	rel     string
	kind    FileKind
	before  string
	after   string
	mode    os.FileMode
	changes []Change
}

// Bump moves the selected packages from their current version to opts.Target.
func (s *Store) Bump(opts Options) (*BumpResult, error) {
	if err := Validate(opts.Target); err != nil {
		return nil, err
	}

	names := opts.Packages
	if len(names) == 0 {
		names = s.ws.Names()
	}
	pkgs, err := s.ws.Lookup(names)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages to bump")
	}

	old := opts.Old
	if old == "" {
		old = pkgs[0].Version
	}
	if err := Validate(old); err != nil {
		return nil, fmt.Errorf("current version: %w", err)
	}
	if opts.Target == old {
		return nil, fmt.Errorf("%w: %s", ErrSameVersion, old)
	}

	divergent := make(map[string]string)
	for _, p := range pkgs {
		if p.Version != old {
			divergent[p.Name] = p.Version
		}
	}
	if len(divergent) > 0 {
		return nil, &VersionMismatchError{Expected: old, Divergent: divergent}
	}

	result := &BumpResult{Old: old, New: opts.Target, Packages: names, DryRun: opts.DryRun}
	if Compare(opts.Target, old) < 0 {
		result.Downgrade = true
		log.Warn(log.CatBump, "Target version is lower than the current version", "old", old, "new", opts.Target)
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s is lower than the current version %s", opts.Target, old))
	}

	rw := newRewriter(old, opts.Target, names)
	edits, problems := s.plan(rw, pkgs, opts.DocFiles, result)
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	for _, e := range edits {
		fc := FileChange{Path: e.rel, Kind: e.kind, Changes: e.changes}
		if opts.DryRun {
			fc.Diff = unifiedDiff(e.rel, e.before, e.after)
		}
		result.Files = append(result.Files, fc)
	}

	if opts.DryRun {
		log.Info(log.CatBump, "Dry run, no files written", "old", old, "new", opts.Target, "files", len(edits))
		return result, nil
	}

	if err := s.commit(edits); err != nil {
		return nil, err
	}
	log.Info(log.CatBump, "Bumped version", "old", old, "new", opts.Target, "files", len(edits))
	return result, nil
}

// plan computes every edit and pre-checks every target file.
func (s *Store) plan(rw *rewriter, pkgs []workspace.Package, docs []string, result *BumpResult) ([]*fileEdit, []Problem) {
	var edits []*fileEdit
	var problems []Problem

	for _, p := range pkgs {
		rel := p.Manifest()
		before, mode, err := s.read(rel)
		if err != nil {
			problems = append(problems, Problem{Path: rel, Reason: err.Error()})
			continue
		}
		res := rw.manifest(before)
		if res.versions == 0 {
			problems = append(problems, Problem{Path: rel, Reason: fmt.Sprintf("no [package] version = %q line", rw.old)})
			continue
		}
		for _, stale := range res.stale {
			log.Warn(log.CatBump, "Dependency requirement not on the current version, left unchanged", "manifest", rel, "requirement", stale)
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s left unchanged", rel, stale))
		}
		edits = append(edits, &fileEdit{rel: rel, kind: FileManifest, before: before, after: res.content, mode: mode, changes: res.changes})
	}

	for _, rel := range docs {
		before, mode, err := s.read(rel)
		if err != nil {
			problems = append(problems, Problem{Path: rel, Reason: err.Error()})
			continue
		}
		after, changes := rw.doc(before)
		if len(changes) == 0 {
			result.Unchanged = append(result.Unchanged, rel)
			continue
		}
		edits = append(edits, &fileEdit{rel: rel, kind: FileDoc, before: before, after: after, mode: mode, changes: changes})
	}

	for _, e := range edits {
		if err := s.checkWritable(e.rel); err != nil {
			problems = append(problems, Problem{Path: e.rel, Reason: err.Error()})
		}
	}
	return edits, problems
}

func (s *Store) read(rel string) (string, os.FileMode, error) {
	path := s.ws.Path(rel)
	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", 0, fmt.Errorf("file not found")
		}
		return "", 0, err
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", 0, err
	}
	return string(data), info.Mode().Perm(), nil
}

func (s *Store) checkWritable(rel string) error {
	f, err := s.fs.OpenFile(s.ws.Path(rel), os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	return f.Close()
}

// commit writes every edit. On failure the files already written are restored.
func (s *Store) commit(edits []*fileEdit) error {
	for i, e := range edits {
		if err := writeFileAtomic(s.fs, s.ws.Path(e.rel), []byte(e.after), e.mode); err != nil {
			werr := fmt.Errorf("writing %s: %w", e.rel, err)
			if rerr := s.rollback(edits[:i]); rerr != nil {
				log.ErrorErr(log.CatBump, "Rollback incomplete", rerr)
				return errors.Join(werr, rerr)
			}
			log.Warn(log.CatBump, "Write failed, restored previously written files", "file", e.rel, "restored", i)
			return werr
		}
	}
	return nil
}

func (s *Store) rollback(written []*fileEdit) error {
	var errs []error
	for _, e := range written {
		if err := writeFileAtomic(s.fs, s.ws.Path(e.rel), []byte(e.before), e.mode); err != nil {
			errs = append(errs, fmt.Errorf("restoring %s: %w", e.rel, err))
		}
	}
	return errors.Join(errs...)
}

// writeFileAtomic writes to a temp file beside path and renames it into place.
func writeFileAtomic(fs afero.Fs, path string, data []byte, mode os.FileMode) error {
	temp, err := afero.TempFile(fs, filepath.Dir(path), "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = fs.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = fs.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := fs.Chmod(tempPath, mode); err != nil {
		_ = fs.Remove(tempPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := fs.Rename(tempPath, path); err != nil {
		_ = fs.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
