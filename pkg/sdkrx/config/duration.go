package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/sosodev/duration"
	"github.com/zclconf/go-cty/cty"
)

// IsExpressionProvided reports whether an optional attribute was set. gohcl
// fills missing attributes with an expression of zero-length range.
func IsExpressionProvided(expr hcl.Expression) bool {
	return expr != nil && expr.Range().End.Byte > expr.Range().Start.Byte
}

// ParseDuration evaluates a duration expression: a number of seconds, an
// ISO 8601 duration ("PT5M") or a Go duration ("5m").
func (c *Config) ParseDuration(expr hcl.Expression) (time.Duration, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	val, evalDiags := expr.Value(c.evalCtx)
	diags = diags.Extend(evalDiags)
	if evalDiags.HasErrors() {
		return 0, diags
	}

	switch val.Type() {
	case cty.Number:
		seconds, _ := val.AsBigFloat().Float64()
		if seconds < 0 {
			return 0, diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid duration",
				Detail:   "Duration must be positive",
				Subject:  expr.Range().Ptr(),
			})
		}
		return time.Duration(seconds * float64(time.Second)), diags

	case cty.String:
		d, err := parseDurationString(val.AsString())
		if err != nil {
			return 0, diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid duration",
				Detail:   err.Error(),
				Subject:  expr.Range().Ptr(),
			})
		}
		return d, diags

	default:
		return 0, diags.Append(&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid duration type",
			Detail:   fmt.Sprintf("Duration must be a number (seconds) or string, got %s", val.Type().FriendlyName()),
			Subject:  expr.Range().Ptr(),
		})
	}
}

func parseDurationString(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	var d time.Duration
	if strings.HasPrefix(s, "P") {
		iso, err := duration.Parse(s)
		if err != nil {
			return 0, fmt.Errorf("failed to parse ISO 8601 duration '%s': %w", s, err)
		}
		d = iso.ToTimeDuration()
	} else {
		var err error
		d, err = time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("failed to parse duration '%s': %w", s, err)
		}
	}

	if d < 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return d, nil
}
