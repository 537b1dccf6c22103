package config

import (
	"github.com/hashicorp/go-cty-funcs/crypto"
	"github.com/hashicorp/go-cty-funcs/encoding"
	"github.com/hashicorp/go-cty-funcs/filesystem"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// GetFunctions returns the functions available in config expressions. file()
// reads paths relative to baseDir.
func GetFunctions(baseDir string) map[string]function.Function {
	return map[string]function.Function{
		"upper":     stdlib.UpperFunc,
		"lower":     stdlib.LowerFunc,
		"trim":      stdlib.TrimFunc,
		"trimspace": stdlib.TrimSpaceFunc,
		"replace":   stdlib.ReplaceFunc,
		"format":    stdlib.FormatFunc,
		"join":      stdlib.JoinFunc,
		"split":     stdlib.SplitFunc,
		"coalesce":  stdlib.CoalesceFunc,
		"lookup":    stdlib.LookupFunc,
		"tostring":  stdlib.MakeToFunc(cty.String),
		"tonumber":  stdlib.MakeToFunc(cty.Number),

		"base64decode": encoding.Base64DecodeFunc,
		"base64encode": encoding.Base64EncodeFunc,
		"sha256":       crypto.Sha256Func,

		"file":       filesystem.MakeFileFunc(baseDir, false),
		"abspath":    filesystem.AbsPathFunc,
		"pathexpand": filesystem.PathExpandFunc,
	}
}
