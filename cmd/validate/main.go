package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/halgrim/quest-guide/pkg/quest"
)

// validate checks quest definition files against the JSON schema and then
// compiles them, so a file that passes here will load cleanly in the API.
func main() {
	schemaPath := flag.String("schema", "schema/quest.schema.json", "path to the quest JSON schema")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"data/quests"}
	}

	schema, err := loadSchema(*schemaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load schema: %v\n", err)
		os.Exit(1)
	}

	v := &questValidator{schema: schema}
	for _, arg := range args {
		if err := v.validatePath(arg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if v.failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d quest file(s) failed validation\n", v.failed, v.checked)
		os.Exit(1)
	}
	fmt.Printf("All %d quest file(s) are valid\n", v.checked)
}

func loadSchema(path string) (*jsonschema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("quest.schema.json", bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return compiler.Compile("quest.schema.json")
}

type questValidator struct {
	schema  *jsonschema.Schema
	checked int
	failed  int
}

// validatePath validates one file, or every .json file under a directory.
func (v *questValidator) validatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		v.validateFile(path)
		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		v.validateFile(filepath.Join(path, entry.Name()))
	}
	return nil
}

var filenamePattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

func (v *questValidator) validateFile(path string) {
	v.checked++
	fmt.Printf("Validating %s...\n", path)

	base := strings.TrimSuffix(filepath.Base(path), ".json")
	if !filenamePattern.MatchString(base) {
		v.fail(path, fmt.Errorf("filename must be lowercase snake_case (e.g. mountain_pass.json)"))
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		v.fail(path, err)
		return
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		v.fail(path, fmt.Errorf("invalid JSON: %w", err))
		return
	}

	if err := v.schema.Validate(doc); err != nil {
		v.fail(path, err)
		return
	}

	// The schema catches shape errors; compiling catches dangling references,
	// cycles and invalid requirement parameters.
	if _, err := quest.Load(bytes.NewReader(data)); err != nil {
		v.fail(path, err)
	}
}

func (v *questValidator) fail(path string, err error) {
	v.failed++
	fmt.Fprintf(os.Stderr, "  %s: %v\n", path, err)
}
