package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/griffnb/jaxdoc/internal/console"
	"github.com/griffnb/jaxdoc/internal/gen"
)

const (
	classPathFlag    = "classpath"
	depPathFlag      = "deppath"
	sourcePathFlag   = "sourcepath"
	outputFlag       = "output"
	outputTypesFlag  = "outputTypes"
	backendFlag      = "backend"
	titleFlag        = "title"
	docVersionFlag   = "docVersion"
	iterationCapFlag = "iterationCap"
	quietFlag        = "quiet"
	debugFlag        = "debug"
)

var analyzeFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    quietFlag,
		Aliases: []string{"q"},
		Usage:   "Make the logger quiet.",
	},
	&cli.StringFlag{
		Name:    classPathFlag,
		Aliases: []string{"c"},
		Usage:   "Project class-path locations (jar files or class directories) to scan, comma separated",
	},
	&cli.StringFlag{
		Name:  depPathFlag,
		Usage: "Dependency class-path locations for supertype resolution, comma separated",
	},
	&cli.StringFlag{
		Name:    sourcePathFlag,
		Aliases: []string{"s"},
		Usage:   "Source directories for documentation extraction, comma separated",
	},
	&cli.StringFlag{
		Name:    outputFlag,
		Aliases: []string{"o"},
		Value:   "./docs",
		Usage:   "Output directory for all the generated files",
	},
	&cli.StringFlag{
		Name:    outputTypesFlag,
		Aliases: []string{"ot"},
		Value:   "json,yaml",
		Usage:   "Output types of generated files (json, yaml, txt) like json,yaml",
	},
	&cli.StringFlag{
		Name:    backendFlag,
		Aliases: []string{"b"},
		Value:   "swagger",
		Usage:   "Document flavor for json/yaml output: swagger or openapi",
	},
	&cli.StringFlag{
		Name:  titleFlag,
		Value: "REST resources",
		Usage: "Document title",
	},
	&cli.StringFlag{
		Name:  docVersionFlag,
		Value: "1.0",
		Usage: "Document version",
	},
	&cli.IntFlag{
		Name:  iterationCapFlag,
		Usage: "Bytecode fixpoint iteration cap, 0 for the default",
	},
	&cli.BoolFlag{
		Name:  debugFlag,
		Usage: "Enable debug mode, disabled by default",
	},
}

func analyzeAction(ctx *cli.Context) error {
	if ctx.IsSet(debugFlag) {
		console.Logger.DebugLevel = 1
	}
	if ctx.Bool(quietFlag) {
		console.Logger.Quiet()
	}

	if strings.TrimSpace(ctx.String(classPathFlag)) == "" {
		return fmt.Errorf("at least one --%s location is required", classPathFlag)
	}

	outputTypes := strings.Split(ctx.String(outputTypesFlag), ",")
	if len(outputTypes) == 0 {
		return fmt.Errorf("no output types specified")
	}

	switch ctx.String(backendFlag) {
	case "swagger", "openapi":
	default:
		return fmt.Errorf("not supported %s backend", ctx.String(backendFlag))
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	if ctx.Bool(quietFlag) {
		logger = log.New(io.Discard, "", log.LstdFlags)
	}

	return gen.New().Build(&gen.Config{
		ClassPaths:      ctx.String(classPathFlag),
		DependencyPaths: ctx.String(depPathFlag),
		SourcePaths:     ctx.String(sourcePathFlag),
		OutputDir:       ctx.String(outputFlag),
		OutputTypes:     outputTypes,
		Backend:         ctx.String(backendFlag),
		Title:           ctx.String(titleFlag),
		DocVersion:      ctx.String(docVersionFlag),
		IterationCap:    ctx.Int(iterationCapFlag),
		Debugger:        logger,
	})
}

func main() {
	app := cli.NewApp()
	app.Version = gen.Version
	app.Usage = "Discover and document the REST surface of compiled JAX-RS artifacts."
	app.Commands = []*cli.Command{
		{
			Name:    "analyze",
			Aliases: []string{"a"},
			Usage:   "Analyze class-path locations and generate documentation",
			Action:  analyzeAction,
			Flags:   analyzeFlags,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
