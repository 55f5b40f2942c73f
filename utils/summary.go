package utils

import "fmt"

// Summary counts what happened to the lines of one requirements file.
type Summary struct {
	Pinned  int // rewritten to the installed (or curated) version
	Kept    int // comments, blanks, options and URL requirements left as they were
	Held    int // left untouched by a curation rule
	Missing int // not installed, kept as is
	Errored int // unparsable, kept as is
}

// Total returns the number of lines accounted for.
func (s Summary) Total() int {
	return s.Pinned + s.Kept + s.Held + s.Missing + s.Errored
}

func (s Summary) String() string {
	return fmt.Sprintf("pinned=%d kept=%d held=%d missing=%d errors=%d",
		s.Pinned, s.Kept, s.Held, s.Missing, s.Errored)
}
