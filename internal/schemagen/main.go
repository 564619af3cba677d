// Command schemagen writes the JSON schema of a scout configuration kind.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/macropower/scout/api/v1beta1/configs"
	"github.com/macropower/scout/api/v1beta1/policies"
	"github.com/macropower/scout/api/v1beta1/projectconfigs"
	"github.com/macropower/scout/pkg/schema"
)

const schemaBaseURL = "https://jacobcolvin.com/scout/schemas/"

var kinds = map[string]struct {
	value    any
	file     string
	packages []string
}{
	"config": {
		value:    configs.New(),
		file:     "configs.v1beta1.json",
		packages: []string{"api/v1beta1", "api/v1beta1/configs", "pkg/registry", "pkg/agent", "pkg/rule", "pkg/invoke"},
	},
	"project": {
		value:    projectconfigs.New(),
		file:     "projectconfigs.v1beta1.json",
		packages: []string{"api/v1beta1", "api/v1beta1/projectconfigs", "pkg/registry", "pkg/agent", "pkg/rule", "pkg/invoke"},
	},
	"policy": {
		value:    policies.New(),
		file:     "policies.v1beta1.json",
		packages: []string{"api/v1beta1", "api/v1beta1/policies"},
	},
}

func main() {
	kind := pflag.String("kind", "config", "Configuration kind: config, project or policy")
	outFile := pflag.StringP("output", "o", "", "Output file (defaults to the kind's schema file name)")
	root := pflag.String("root", "../../..", "Module root, relative to the working directory")
	pflag.Parse()

	err := run(*kind, *outFile, *root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schemagen: %v\n", err)
		os.Exit(1)
	}
}

func run(kind, outFile, root string) error {
	k, ok := kinds[kind]
	if !ok {
		return fmt.Errorf("unknown kind %q", kind)
	}

	if outFile == "" {
		outFile = k.file
	}

	// Resolve before changing to the module root for comment extraction.
	outFile, err := filepath.Abs(outFile)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	err = os.Chdir(root)
	if err != nil {
		return fmt.Errorf("change to module root: %w", err)
	}

	gen := schema.NewGenerator(k.value,
		schema.WithID(schemaBaseURL+k.file),
		schema.WithComments(k.packages...),
	)

	data, err := gen.Generate()
	if err != nil {
		return fmt.Errorf("generate JSON schema: %w", err)
	}

	err = os.WriteFile(outFile, data, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}
