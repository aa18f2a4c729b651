package agent

// Artifact is a structured source record returned by a tool alongside its
// display text. The accumulated artifacts of a run form the source pool
// the citation deriver works from.
type Artifact struct {
	Text      string `json:"text"`
	Reference string `json:"reference"`
	Title     string `json:"title,omitempty"`
	Index     int    `json:"index,omitempty"`
}
