package orchestrator

import "zodguard/internal/synx"

// edit describes what happens to one top-level child of the program node
// when the cleaned source is printed.
type edit struct {
	node        *synx.Node
	remove      bool
	exportPrefix bool
}

// splice realizes the Printer contract as byte-range text surgery against
// the original source: statements marked for removal are cut out, surviving
// bare declarations gain an "export " prefix, and everything else —
// including comments, which tree-sitter attaches as ordinary children
// positioned between statements — is copied through untouched.
func splice(source []byte, children []*synx.Node, edits map[[2]uint32]edit) string {
	out := make([]byte, 0, len(source))
	var cursor uint32

	for _, child := range children {
		e, marked := edits[child.Identity()]
		start, end := child.StartByte(), child.EndByte()

		out = append(out, source[cursor:start]...)
		if marked && e.remove {
			cursor = end
			continue
		}
		if marked && e.exportPrefix {
			out = append(out, "export "...)
		}
		out = append(out, source[start:end]...)
		cursor = end
	}
	out = append(out, source[cursor:]...)
	return string(out)
}
