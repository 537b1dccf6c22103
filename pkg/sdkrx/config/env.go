package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/joho/godotenv"
	"github.com/zclconf/go-cty/cty"
)

// environment is the merged view of .env files and the process environment.
type environment map[string]string

// loadEnv reads files in order, then overlays the process environment. A
// variable set in the process always wins over a .env file.
func loadEnv(files []string, lookup func(string) (string, bool)) (environment, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	env := make(environment)

	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Failed to read env file",
				Detail:   err.Error(),
			})
			continue
		}
		for k, v := range values {
			env[k] = v
		}
	}

	if lookup == nil {
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				env[k] = v
			}
		}
		return env, diags
	}

	for k := range env {
		if v, ok := lookup(k); ok {
			env[k] = v
		}
	}
	for _, k := range overrideKeys {
		if v, ok := lookup(k); ok {
			env[k] = v
		}
	}
	return env, diags
}

var overrideKeys = []string{
	"SDKRX_NETWORK",
	"SDKRX_API_URL",
	"SDKRX_WS_URL",
	"SDKRX_API_TOKEN",
	"SDKRX_DIAL_TIMEOUT",
}

// object returns env as the cty object bound to "env" in HCL expressions.
func (e environment) object() cty.Value {
	if len(e) == 0 {
		return cty.EmptyObjectVal
	}

	attrs := make(map[string]cty.Value, len(e))
	for k, v := range e {
		attrs[sanitizeEnvVarName(k)] = cty.StringVal(v)
	}
	return cty.ObjectVal(attrs)
}

// sanitizeEnvVarName converts environment variable names to valid HCL attribute names
func sanitizeEnvVarName(name string) string {
	if name == "" {
		return "_"
	}

	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		case i > 0 && (r == '-' || (r >= '0' && r <= '9')):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
