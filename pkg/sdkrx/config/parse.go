package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ParseConfigFiles parses each source, a file path (string) or file contents ([]byte).
func ParseConfigFiles(sources ...any) ([]hcl.Body, hcl.Diagnostics) {
	parser := hclparse.NewParser()
	var diags hcl.Diagnostics
	bodies := make([]hcl.Body, 0, len(sources))

	for _, source := range sources {
		switch v := source.(type) {
		case string:
			if _, err := os.Stat(v); err != nil {
				diags = diags.Append(&hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Failed to stat file",
					Detail:   fmt.Sprintf("Error statting %s: %s", v, err),
				})
				continue
			}
			file, parseDiags := parser.ParseHCLFile(v)
			diags = diags.Extend(parseDiags)
			if file != nil {
				bodies = append(bodies, file.Body)
			}
		case []byte:
			filename := fmt.Sprintf("<bytes@%p>", v)
			file, parseDiags := parser.ParseHCL(v, filename)
			diags = diags.Extend(parseDiags)
			if file != nil {
				bodies = append(bodies, file.Body)
			}
		default:
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid source type",
				Detail:   fmt.Sprintf("Invalid source type: %T", v),
			})
		}
	}

	return bodies, diags
}
