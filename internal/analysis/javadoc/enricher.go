// Package javadoc enriches analysis results with documentation extracted
// from project source files. The analyzer treats the enricher as opaque;
// callers can substitute their own implementation.
package javadoc

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/griffnb/jaxdoc/internal/domain"
)

// ClassPool is the slice of the class pool the enricher may consult.
type ClassPool interface {
	PackageNames() []string
}

// Enricher merges documentation fragments into existing results in place.
type Enricher interface {
	Enrich(classResults []*domain.ClassResult, packages []string, sourcePaths []string, pool ClassPool)
}

// Debugger is the interface for debug logging.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// Service is the default enricher: it locates each class's source file by
// package path and attaches the doc blocks preceding the type and its
// resource methods.
type Service struct {
	debug Debugger
}

// Option configures the service.
type Option func(*Service)

// WithDebugger sets the debug logger.
func WithDebugger(debug Debugger) Option {
	return func(s *Service) {
		s.debug = debug
	}
}

// NewService creates the default enricher.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enrich scans the source paths and mutates the results in place. Missing
// sources are not an error; results simply stay undocumented.
func (s *Service) Enrich(classResults []*domain.ClassResult, packages []string, sourcePaths []string, pool ClassPool) {
	if len(sourcePaths) == 0 {
		return
	}
	for _, class := range classResults {
		source, ok := findSource(class.OriginalClass, sourcePaths)
		if !ok {
			continue
		}
		data, err := os.ReadFile(source)
		if err != nil {
			if s.debug != nil {
				s.debug.Printf("javadoc: cannot read %s: %v", source, err)
			}
			continue
		}
		applyDocs(class, string(data))
	}
}

// findSource maps a binary class name to a .java file under the source
// paths. Nested classes document against their enclosing type's file.
func findSource(binaryName string, sourcePaths []string) (string, bool) {
	topLevel := binaryName
	if idx := strings.Index(topLevel, "$"); idx >= 0 {
		topLevel = topLevel[:idx]
	}
	relative := filepath.FromSlash(strings.ReplaceAll(topLevel, ".", "/")) + ".java"
	for _, sourcePath := range sourcePaths {
		candidate := filepath.Join(sourcePath, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

func applyDocs(class *domain.ClassResult, source string) {
	blocks := docBlocks(source)
	simpleName := class.OriginalClass
	if idx := strings.LastIndex(simpleName, "."); idx >= 0 {
		simpleName = simpleName[idx+1:]
	}

	for _, block := range blocks {
		if class.Doc == "" && declaresType(block.following, simpleName) {
			class.Doc = block.text
		}
		for _, method := range class.Methods {
			if method.Doc == "" && declaresMethod(block.following, method.MethodName) {
				method.Doc = block.text
			}
		}
	}
}

type docBlock struct {
	text string
	// following is the first code line after the comment block.
	following string
}

// docBlocks extracts every /** ... */ block with the declaration line it
// documents.
func docBlocks(source string) []docBlock {
	var blocks []docBlock
	rest := source
	for {
		start := strings.Index(rest, "/**")
		if start < 0 {
			return blocks
		}
		end := strings.Index(rest[start:], "*/")
		if end < 0 {
			return blocks
		}
		raw := rest[start+3 : start+end]
		rest = rest[start+end+2:]

		following := ""
		for _, line := range strings.Split(rest, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "@") || strings.HasPrefix(line, "//") {
				continue
			}
			following = line
			break
		}
		blocks = append(blocks, docBlock{text: cleanBlock(raw), following: following})
	}
}

// cleanBlock strips comment decoration and trailing tag sections.
func cleanBlock(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "@") {
			break
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " ")
}

func declaresType(line, simpleName string) bool {
	return strings.Contains(line, "class "+simpleName) ||
		strings.Contains(line, "interface "+simpleName) ||
		strings.Contains(line, "enum "+simpleName)
}

func declaresMethod(line, methodName string) bool {
	idx := strings.Index(line, methodName+"(")
	if idx < 0 {
		return false
	}
	// require a preceding space so substrings of longer names do not match
	return idx == 0 || line[idx-1] == ' '
}
