package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover finds files matching opts. It returns a sorted, deduplicated list
// of absolute paths. Explicitly named files are included whenever their
// extension matches, even inside hidden or skipped directories.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	w := &walker{
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		skipDirs:   opts.effectiveSkipDirs(),
		exclude:    exclude,
		follow:     opts.FollowSymlinks,
		seen:       make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			if err := w.walk(ctx, absPath); err != nil {
				return nil, err
			}
			continue
		}
		if w.matchesFile(absPath) {
			w.add(absPath)
		}
	}

	slices.Sort(w.files)
	return w.files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

type walker struct {
	workDir    string
	extensions []string
	skipDirs   map[string]bool
	exclude    []glob.Glob
	follow     bool

	seen  map[string]struct{}
	files []string
}

func (w *walker) add(path string) {
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, path)
}

func (w *walker) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path != root && w.skipDir(path, entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !w.follow || w.skipDir(path, entry.Name()) {
					return nil
				}
				// Walk the target; WalkDir does not follow the link itself.
				return w.walk(ctx, target)
			}
		}

		if w.matchesFile(path) {
			w.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (w *walker) skipDir(path, name string) bool {
	if strings.HasPrefix(name, ".") || w.skipDirs[name] {
		return true
	}
	return matchAny(w.exclude, w.rel(path), true)
}

func (w *walker) matchesFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(w.extensions, ext) {
		return false
	}
	return !matchAny(w.exclude, w.rel(path), false)
}

func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// matchAny matches a slash-separated relative path, and its base name,
// against globs. Directories also match with a trailing slash, so
// "target/**" excludes the target directory itself.
func matchAny(globs []glob.Glob, rel string, isDir bool) bool {
	base := path.Base(rel)
	for _, g := range globs {
		if g.Match(rel) || g.Match(base) || (isDir && g.Match(rel+"/")) {
			return true
		}
	}
	return false
}
