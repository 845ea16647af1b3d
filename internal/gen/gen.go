// Package gen drives a full generation run: analyze the configured
// artifacts and write the rendered documents to the output directory.
package gen

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/griffnb/jaxdoc/internal/analysis"
	"github.com/griffnb/jaxdoc/internal/backend"
	"github.com/griffnb/jaxdoc/internal/console"
	"github.com/griffnb/jaxdoc/internal/domain"
)

// Version of the generator, stamped into the CLI.
const Version = "v1.2.0"

type genTypeWriter func(*Config, *domain.Resources) error

// Gen presents the generate tool.
type Gen struct {
	jsonIndent    func(data interface{}) ([]byte, error)
	jsonToYAML    func(data []byte) ([]byte, error)
	outputTypeMap map[string]genTypeWriter
	debug         Debugger
}

// Debugger is the interface that wraps the basic Printf method.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// New creates a new Gen.
func New() *Gen {
	gen := Gen{
		jsonIndent: func(data interface{}) ([]byte, error) {
			return json.MarshalIndent(data, "", "    ")
		},
		jsonToYAML: yaml.JSONToYAML,
		debug:      log.New(os.Stdout, "", log.LstdFlags),
	}

	gen.outputTypeMap = map[string]genTypeWriter{
		"json": gen.writeJSONDoc,
		"yaml": gen.writeYAMLDoc,
		"yml":  gen.writeYAMLDoc,
		"txt":  gen.writeTextDoc,
	}

	return &gen
}

// Config presents Gen configurations.
type Config struct {
	Debugger Debugger

	// ClassPaths are the project artifacts scanned for REST roots,
	// comma-separated directories or archives.
	ClassPaths string

	// DependencyPaths resolve supertypes and call targets only.
	DependencyPaths string

	// SourcePaths feed the documentation enricher.
	SourcePaths string

	// OutputDir receives all generated files.
	OutputDir string

	// OutputTypes selects the generated files (json, yaml, txt).
	OutputTypes []string

	// Backend selects the document flavor for json/yaml output
	// (swagger or openapi).
	Backend string

	// Title and DocVersion fill the document info section.
	Title      string
	DocVersion string

	// IterationCap bounds the bytecode fixpoint; 0 uses the default.
	IterationCap int
}

// Build analyzes the configured class paths and writes the requested
// documents. Returns the first fatal error.
func (g *Gen) Build(config *Config) error {
	if config.Debugger != nil {
		g.debug = config.Debugger
	}
	if config.Backend == "" {
		config.Backend = "swagger"
	}
	if config.Title == "" {
		config.Title = "REST resources"
	}
	if config.DocVersion == "" {
		config.DocVersion = "1.0"
	}

	classPaths := splitPaths(config.ClassPaths)
	if len(classPaths) == 0 {
		return fmt.Errorf("no class paths given")
	}
	for _, classPath := range classPaths {
		if _, err := os.Stat(classPath); os.IsNotExist(err) {
			return fmt.Errorf("class path %s does not exist", classPath)
		}
	}

	console.Logger.Debug("Analyzing REST surface....")

	analyzer := analysis.New(&analysis.Config{
		ProjectClassPaths:    classPaths,
		DependencyClassPaths: splitPaths(config.DependencyPaths),
		ProjectSourcePaths:   splitPaths(config.SourcePaths),
		IterationCap:         config.IterationCap,
		Debug:                g.debug,
	})

	resources, err := analyzer.Analyze()
	if err != nil {
		return err
	}

	g.debug.Printf("analyzed %d resource entries under %s", len(resources.Entries), resources.ApplicationPath)

	if err := os.MkdirAll(config.OutputDir, os.ModePerm); err != nil {
		return err
	}

	for _, outputType := range config.OutputTypes {
		outputType = strings.ToLower(strings.TrimSpace(outputType))
		if typeWriter, ok := g.outputTypeMap[outputType]; ok {
			if err := typeWriter(config, resources); err != nil {
				return err
			}
		} else {
			log.Printf("output type '%s' not supported", outputType)
		}
	}

	return nil
}

func (g *Gen) renderDocument(config *Config, resources *domain.Resources) ([]byte, error) {
	b, err := backend.ForName(config.Backend)
	if err != nil {
		return nil, err
	}
	switch typed := b.(type) {
	case *backend.Swagger:
		typed.SetInfo(config.Title, config.DocVersion)
	case *backend.OpenAPI:
		typed.SetInfo(config.Title, config.DocVersion)
	}
	return b.Render(resources)
}

func (g *Gen) writeJSONDoc(config *Config, resources *domain.Resources) error {
	document, err := g.renderDocument(config, resources)
	if err != nil {
		return err
	}
	fileName := path.Join(config.OutputDir, config.Backend+".json")
	if err := g.writeFile(document, fileName); err != nil {
		return err
	}
	console.Logger.Debug("created %s", fileName)
	return nil
}

func (g *Gen) writeYAMLDoc(config *Config, resources *domain.Resources) error {
	document, err := g.renderDocument(config, resources)
	if err != nil {
		return err
	}
	yamlDocument, err := g.jsonToYAML(document)
	if err != nil {
		return fmt.Errorf("cannot convert json to yaml error: %w", err)
	}
	fileName := path.Join(config.OutputDir, config.Backend+".yaml")
	if err := g.writeFile(yamlDocument, fileName); err != nil {
		return err
	}
	console.Logger.Debug("created %s", fileName)
	return nil
}

func (g *Gen) writeTextDoc(config *Config, resources *domain.Resources) error {
	document, err := backend.NewPlainText().Render(resources)
	if err != nil {
		return err
	}
	fileName := path.Join(config.OutputDir, "resources.txt")
	if err := g.writeFile(document, fileName); err != nil {
		return err
	}
	console.Logger.Debug("created %s", fileName)
	return nil
}

func (g *Gen) writeFile(b []byte, file string) error {
	return os.WriteFile(file, b, 0o644)
}

func splitPaths(paths string) []string {
	var out []string
	for _, p := range strings.Split(paths, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
