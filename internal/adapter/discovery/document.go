package discovery

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ModelDocument is a forgiving view over an /api/show body. Every accessor
// hands back a zero value when the path is missing or has the wrong type,
// so one odd server never costs us the rest of the record.
type ModelDocument struct {
	root gjson.Result
}

func NewModelDocument(body []byte) ModelDocument {
	return ModelDocument{root: gjson.ParseBytes(body)}
}

// String returns the value at path when it is a JSON string
func (d ModelDocument) String(path string) string {
	v := d.root.Get(path)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

// Strings returns the string elements of the array at path, anything else
// in the array is skipped. Never nil.
func (d ModelDocument) Strings(path string) []string {
	out := []string{}
	v := d.root.Get(path)
	if !v.IsArray() {
		return out
	}
	v.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String {
			out = append(out, item.Str)
		}
		return true
	})
	return out
}

// Int returns the integer at path, ok is false when it is missing or not a
// whole number
func (d ModelDocument) Int(path string) (int64, bool) {
	v := d.root.Get(path)
	if v.Type != gjson.Number {
		return 0, false
	}
	n := v.Int()
	if float64(n) != v.Num {
		return 0, false
	}
	return n, true
}

// ContextLength looks up model_info["<arch>.context_length"] where arch is
// model_info["general.architecture"]. Keys contain dots, so they're escaped
// for gjson.
func (d ModelDocument) ContextLength() (int64, bool) {
	arch := d.String("model_info." + escapePath("general.architecture"))
	if arch == "" {
		return 0, false
	}
	return d.Int("model_info." + escapePath(arch+".context_length"))
}

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	".", `\.`,
	"*", `\*`,
	"?", `\?`,
	"|", `\|`,
	"#", `\#`,
	"@", `\@`,
)

func escapePath(key string) string {
	return pathEscaper.Replace(key)
}
