package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bdekoz/izzi/pkg/pipeline"
)

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // source file, used to derive output names
	output    string // -o flag: a file for one format, a base path for several
	dir       string // when set, every artifact goes to dir/<input base>.<format>
}

// writeArtifacts writes each artifact and returns the paths written, in
// format order.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	var paths []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(p.output, p.input, format, len(p.formats) > 1)
		if p.dir != "" {
			path = filepath.Join(p.dir, filepath.Base(basePath("", p.input))+"."+format)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath picks the file for one format. A single format writes to
// output verbatim; several formats share its base name.
func outputPath(output, input, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".layout")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
