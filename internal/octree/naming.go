package octree

import (
	"fmt"
	"strconv"
	"strings"
)

// FileExt is the extension of every node file.
const FileExt = ".bin"

// NodeName maps (depth, octant path) to the node's file name. The
// general form is "{depth}-{p0}-{p1}-...{ext}", one path token per
// level. The root keeps its legacy 4-token name "0-0-0-0.bin";
// downstream loaders hard-code that asymmetry, so it is part of the
// external contract. The mapping is injective: depth fixes the token
// count and each token is a single octant digit.
func NodeName(depth int, path []int) string {
	if depth == 0 {
		return "0-0-0-0" + FileExt
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(depth))
	for _, oct := range path {
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(oct))
	}
	b.WriteString(FileExt)
	return b.String()
}

// ParseNodeName inverts NodeName, recovering tree position from a file
// name alone (no manifest is ever written). Names that fit neither the
// root form nor "{depth}-{path...}" with a matching token count are
// rejected.
func ParseNodeName(name string) (depth int, path []int, err error) {
	base, ok := strings.CutSuffix(name, FileExt)
	if !ok {
		return 0, nil, fmt.Errorf("octree: node name %q lacks %s suffix", name, FileExt)
	}
	if base == "0-0-0-0" {
		return 0, nil, nil
	}

	tokens := strings.Split(base, "-")
	depth, err = strconv.Atoi(tokens[0])
	if err != nil || depth < 1 {
		return 0, nil, fmt.Errorf("octree: bad depth token in node name %q", name)
	}
	if len(tokens) != depth+1 {
		return 0, nil, fmt.Errorf("octree: node name %q has %d path tokens, want %d", name, len(tokens)-1, depth)
	}
	path = make([]int, depth)
	for i, tok := range tokens[1:] {
		oct, err := strconv.Atoi(tok)
		if err != nil || oct < 0 || oct > 7 {
			return 0, nil, fmt.Errorf("octree: bad octant token %q in node name %q", tok, name)
		}
		path[i] = oct
	}
	return depth, path, nil
}
