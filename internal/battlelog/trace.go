package battlelog

import "strings"

// ExtractTags renders every token on its own line: tags by name, payload as
// decimal, indented two spaces per open block. It does no validation, so it
// works on logs that Parse rejects.
func ExtractTags(data []int64) []string {
	out := make([]string, 0, len(data))
	depth := 0
	indent := func() string {
		if depth <= 0 {
			return ""
		}
		return strings.Repeat("  ", depth)
	}
	for _, x := range data {
		info, ok := tagTable[Tag(x)]
		if !ok {
			out = append(out, indent()+formatInt(x))
			continue
		}
		switch info.shape {
		case shapeOpen:
			out = append(out, indent()+info.name)
			depth++
		case shapeClose:
			depth--
			out = append(out, indent()+info.name)
		default:
			out = append(out, indent()+info.name)
		}
	}
	return out
}
