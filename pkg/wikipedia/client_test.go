package wikipedia

import (
	"strings"
	"testing"
)

func TestParseSections(t *testing.T) {
	extract := `The lead paragraph introduces the topic.

== History ==
Events happened here.
More events.

=== Early period ===
Nested detail stays with its parent.

== Reception ==
It was well received.

== Empty section ==

== See also ==
Related things.`

	sections := parseSections(extract)

	want := []struct {
		title   string
		snippet string
	}{
		{"", "The lead paragraph"},
		{"History", "Events happened"},
		{"Reception", "well received"},
		{"See also", "Related things"},
	}

	if len(sections) != len(want) {
		t.Fatalf("len(sections) = %d, want %d: %+v", len(sections), len(want), sections)
	}
	for i, w := range want {
		if sections[i].Title != w.title {
			t.Errorf("sections[%d].Title = %q, want %q", i, sections[i].Title, w.title)
		}
		if w.snippet != "" && !strings.Contains(sections[i].Content, w.snippet) {
			t.Errorf("sections[%d].Content missing %q: %q", i, w.snippet, sections[i].Content)
		}
	}
}

func TestParseSectionsKeepsNestedHeadingContent(t *testing.T) {
	sections := parseSections("== A ==\nfirst\n=== A1 ===\nnested\n")
	if len(sections) != 1 {
		t.Fatalf("len(sections) = %d, want 1", len(sections))
	}
	if !strings.Contains(sections[0].Content, "nested") {
		t.Errorf("nested heading content lost: %q", sections[0].Content)
	}
}

func TestPageURL(t *testing.T) {
	if got := PageURL("Malcolm Tucker"); got != "https://en.wikipedia.org/wiki/Malcolm_Tucker" {
		t.Errorf("PageURL = %q", got)
	}
}

func TestFragmentAnchor(t *testing.T) {
	if got := FragmentAnchor("Early life and career"); got != "Early_life_and_career" {
		t.Errorf("FragmentAnchor = %q", got)
	}
}

