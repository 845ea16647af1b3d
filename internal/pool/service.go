// Package pool manages the class pool: the set of artifact locations
// (archives or directories of compiled classes) and the index of class and
// package names discoverable from them.
package pool

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/griffnb/jaxdoc/internal/domain"
)

// Debugger is the interface for debug logging.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// classEntry records where a class was first found.
type classEntry struct {
	location *location
	// entry is the archive entry name or the file path relative to a
	// directory location, slash-separated.
	entry string
}

type location struct {
	path    string
	archive bool
	// dependency locations resolve classes for supertype and call-target
	// lookups but are not scanned for REST roots.
	dependency bool
	// classes found in this location, binary name -> entry.
	classes  map[string]string
	packages map[string]struct{}
}

// Service is the class pool. Locations are appended during setup; lookups
// are read-only afterwards.
type Service struct {
	locations []*location
	classes   map[string]classEntry
	debug     Debugger
}

// Option configures the service.
type Option func(*Service)

// WithDebugger sets the debug logger.
func WithDebugger(debug Debugger) Option {
	return func(s *Service) {
		s.debug = debug
	}
}

// NewService creates an empty class pool.
func NewService(opts ...Option) *Service {
	s := &Service{
		classes: make(map[string]classEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddProject registers a project location: its classes are enumerated and
// eligible for root selection.
func (s *Service) AddProject(path string) error {
	return s.AddLocations([]string{path}, false)
}

// AddDependency registers a dependency location: classes are resolvable via
// ReadClass but not listed by ClassNames.
func (s *Service) AddDependency(path string) error {
	return s.AddLocations([]string{path}, true)
}

// AddLocations scans the given locations concurrently and merges them in
// input order, so first-hit class resolution stays deterministic.
func (s *Service) AddLocations(paths []string, dependency bool) error {
	scanned := make([]*location, len(paths))

	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			loc, err := scanLocation(path, dependency)
			if err != nil {
				return err
			}
			scanned[i] = loc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, loc := range scanned {
		s.locations = append(s.locations, loc)
		for name, entry := range loc.classes {
			if _, exists := s.classes[name]; !exists {
				s.classes[name] = classEntry{location: loc, entry: entry}
			}
		}
		if s.debug != nil {
			s.debug.Printf("pool: added %s (%d classes, dependency=%v)", loc.path, len(loc.classes), loc.dependency)
		}
	}
	return nil
}

// AddPlatform registers the platform class library from $JAVA_HOME as a
// dependency location, when one can be found. Absence is not an error;
// supertype resolution degrades gracefully.
func (s *Service) AddPlatform() {
	javaHome := os.Getenv("JAVA_HOME")
	if javaHome == "" {
		return
	}
	for _, candidate := range []string{
		filepath.Join(javaHome, "jre", "lib", "rt.jar"),
		filepath.Join(javaHome, "lib", "rt.jar"),
	} {
		if _, err := os.Stat(candidate); err == nil {
			if err := s.AddDependency(candidate); err != nil && s.debug != nil {
				s.debug.Printf("pool: platform location %s not loadable: %v", candidate, err)
			}
			return
		}
	}
}

// ClassNames returns the binary names of all project classes, sorted for
// reproducible analysis order.
func (s *Service) ClassNames() []string {
	var names []string
	for _, loc := range s.locations {
		if loc.dependency {
			continue
		}
		for name := range loc.classes {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return dedupeSorted(names)
}

// PackageNames returns all registered package names, sorted.
func (s *Service) PackageNames() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, loc := range s.locations {
		for pkg := range loc.packages {
			if _, ok := seen[pkg]; !ok {
				seen[pkg] = struct{}{}
				names = append(names, pkg)
			}
		}
	}
	sort.Strings(names)
	return names
}

// ReadClass returns the raw class-file bytes for a binary class name,
// searching all registered locations in load order.
func (s *Service) ReadClass(binaryName string) ([]byte, error) {
	entry, ok := s.classes[binaryName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrClassNotFound, binaryName)
	}
	if entry.location.archive {
		return readArchiveEntry(entry.location.path, entry.entry)
	}
	return os.ReadFile(filepath.Join(entry.location.path, filepath.FromSlash(entry.entry)))
}

// Contains reports whether the pool can resolve the class.
func (s *Service) Contains(binaryName string) bool {
	_, ok := s.classes[binaryName]
	return ok
}

func scanLocation(path string, dependency bool) (*location, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidLocation, path)
	}

	loc := &location{
		path:       path,
		dependency: dependency,
		classes:    make(map[string]string),
		packages:   make(map[string]struct{}),
	}

	if info.IsDir() {
		err = filepath.Walk(path, func(file string, f os.FileInfo, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".class") {
				return nil
			}
			rel, err := filepath.Rel(path, file)
			if err != nil {
				return err
			}
			loc.register(filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
		return loc, nil
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		if strings.HasSuffix(entry.Name, ".class") {
			loc.register(entry.Name)
		}
	}
	loc.archive = true
	return loc, nil
}

// register records one .class entry, deriving the binary class name and the
// package name. Entry names use "/" regardless of host filesystem.
func (l *location) register(entry string) {
	name := strings.TrimSuffix(entry, ".class")
	binaryName := strings.ReplaceAll(name, "/", ".")
	l.classes[binaryName] = entry
	if idx := strings.LastIndex(binaryName, "."); idx > 0 {
		l.packages[binaryName[:idx]] = struct{}{}
	}
}

// readArchiveEntry opens the archive, extracts one entry and closes it
// again; no handles are retained between reads.
func readArchiveEntry(archivePath, entry string) ([]byte, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen archive %s: %w", archivePath, err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		if f.Name != entry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%w: %s missing from %s", domain.ErrClassNotFound, entry, archivePath)
}

func dedupeSorted(names []string) []string {
	out := names[:0]
	for i, name := range names {
		if i == 0 || names[i-1] != name {
			out = append(out, name)
		}
	}
	return out
}
