package domain

// CombinationLabel is an explicit display override for one mask, including
// single-bit masks. Absence falls back to the resolver's generated label.
type CombinationLabel struct {
	Mask  Mask
	Glyph string
	Label string
}

// Label is the resolved display form of a mask: a glyph plus the member
// names in ascending bit-position order. Text is the override label when one
// exists, otherwise the joined names.
type Label struct {
	Glyph string
	Names []string
	Text  string
}
