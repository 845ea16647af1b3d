// Package analysis coordinates the discovery pipeline: class pool
// population, root selection, the job-registry drain, bytecode inference,
// documentation enrichment and result interpretation.
package analysis

import (
	"errors"
	"fmt"
	"sync"

	"github.com/griffnb/jaxdoc/internal/analysis/bytecode"
	"github.com/griffnb/jaxdoc/internal/analysis/classes"
	"github.com/griffnb/jaxdoc/internal/analysis/javadoc"
	"github.com/griffnb/jaxdoc/internal/analysis/results"
	"github.com/griffnb/jaxdoc/internal/domain"
	"github.com/griffnb/jaxdoc/internal/pool"
	"github.com/griffnb/jaxdoc/internal/registry"
)

// Debugger is the interface for debug logging.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// Config holds the analyzer configuration.
type Config struct {
	// ProjectClassPaths are scanned for REST roots.
	ProjectClassPaths []string

	// DependencyClassPaths resolve supertypes and call targets but are not
	// scanned for roots.
	DependencyClassPaths []string

	// ProjectSourcePaths feed the documentation enricher.
	ProjectSourcePaths []string

	// IterationCap bounds the bytecode fixpoint; 0 uses the default.
	IterationCap int

	// Enricher overrides the default source-scanning javadoc enricher.
	Enricher javadoc.Enricher

	Debug Debugger
}

// Service is the project analyzer. Analyze is mutually exclusive:
// concurrent callers serialize on a single lock. The class pool is the only
// state surviving between calls.
type Service struct {
	mu     sync.Mutex
	config *Config
	pool   *pool.Service
	loaded bool

	enricher    javadoc.Enricher
	interpreter *results.Service
}

// New creates a project analyzer.
func New(config *Config) *Service {
	if config == nil {
		config = &Config{}
	}

	var poolOpts []pool.Option
	if config.Debug != nil {
		poolOpts = append(poolOpts, pool.WithDebugger(config.Debug))
	}

	enricher := config.Enricher
	if enricher == nil {
		var opts []javadoc.Option
		if config.Debug != nil {
			opts = append(opts, javadoc.WithDebugger(config.Debug))
		}
		enricher = javadoc.NewService(opts...)
	}

	var resultOpts []results.Option
	if config.Debug != nil {
		resultOpts = append(resultOpts, results.WithDebugger(config.Debug))
	}

	return &Service{
		config:      config,
		pool:        pool.NewService(poolOpts...),
		enricher:    enricher,
		interpreter: results.NewService(resultOpts...),
	}
}

// Pool exposes the class pool, mainly for tests.
func (s *Service) Pool() *pool.Service {
	return s.pool
}

// Analyze runs the full pipeline and returns the assembled REST surface.
// Configuration errors are fatal; analysis errors degrade with a log line.
func (s *Service) Analyze() (*domain.Resources, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensurePool(); err != nil {
		return nil, err
	}

	// Per-call state: nothing below survives into the next call.
	resolver := classes.NewResolver(s.pool)
	jobs := registry.NewService()

	var classOpts []classes.Option
	if s.config.Debug != nil {
		classOpts = append(classOpts, classes.WithDebugger(s.config.Debug))
	}
	analyzer := classes.NewService(resolver, classOpts...)

	interpOpts := []bytecode.Option{bytecode.WithIterationCap(s.config.IterationCap)}
	if s.config.Debug != nil {
		interpOpts = append(interpOpts, bytecode.WithDebugger(s.config.Debug))
	}
	interpreter := bytecode.NewInterpreter(resolver, interpOpts...)

	for _, name := range s.pool.ClassNames() {
		if s.isRoot(resolver, name) || s.hasRootSupertype(resolver, name) {
			jobs.Enqueue(name)
		}
	}

	for {
		name, classResult, ok := jobs.NextPending()
		if !ok {
			break
		}

		if err := analyzer.Analyze(name, classResult); err != nil {
			if errors.Is(err, domain.ErrClassNotFound) {
				s.debugf("class %s could not be loaded, skipped: %v", name, err)
				jobs.MarkDone(name)
				continue
			}
			return nil, err
		}

		for _, method := range classResult.Methods {
			interpreter.AnalyzeMethod(classResult.OriginalClass, method)
			for _, target := range method.InvokedTargets {
				if !domain.IsPlatformClass(target.ClassName) && s.pool.Contains(target.ClassName) {
					jobs.Enqueue(target.ClassName)
				}
			}
		}
		jobs.MarkDone(name)
	}

	classResults := jobs.Results()
	s.enricher.Enrich(classResults, s.pool.PackageNames(), s.config.ProjectSourcePaths, s.pool)

	return s.interpreter.Interpret(classResults), nil
}

// ensurePool populates the class pool on the first analyze call.
func (s *Service) ensurePool() error {
	if s.loaded {
		return nil
	}
	if len(s.config.ProjectClassPaths) == 0 {
		return fmt.Errorf("%w: no project class paths configured", domain.ErrInvalidLocation)
	}
	if err := s.pool.AddLocations(s.config.ProjectClassPaths, false); err != nil {
		return err
	}
	if len(s.config.DependencyClassPaths) > 0 {
		if err := s.pool.AddLocations(s.config.DependencyClassPaths, true); err != nil {
			return err
		}
	}
	s.pool.AddPlatform()
	s.loaded = true
	return nil
}

func (s *Service) debugf(format string, v ...interface{}) {
	if s.config.Debug != nil {
		s.config.Debug.Printf(format, v...)
	}
}
