package ast

// BFSegment is one piece of an inline-BF block's body: either a run of raw
// BF characters, or an embedded source-language block compiled types-only
// and spliced in at that point.
type BFSegment interface {
	bfSegmentNode()
}

type RawBFSegment struct {
	Ops string
}

func (RawBFSegment) bfSegmentNode() {}

type EmbeddedBlockSegment struct {
	Body []Clause
}

func (EmbeddedBlockSegment) bfSegmentNode() {}
