package formats

import "strings"

var tsvEscaper = strings.NewReplacer("\\", "\\\\", "\t", "\\t", "\n", "\\n", "\r", "\\r")

func tsvField(s string) string {
	return tsvEscaper.Replace(s)
}
