package lockfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line   string
		inList bool
		want   Line
	}{
		{"", false, Line{Kind: LineIgnored}},
		{"   # comment", false, Line{Kind: LineIgnored}},
		{"[[package]]", false, Line{Kind: LineSection}},
		{"  [[package]]  ", true, Line{Kind: LineSection}},
		{"[metadata]", false, Line{Kind: LineOtherSection}},
		{"[[patch.unused]]", false, Line{Kind: LineOtherSection}},
		{`name = "serde"`, false, Line{Kind: LineName, Value: "serde"}},
		{`version = "1.0.200"`, false, Line{Kind: LineVersion, Value: "1.0.200"}},
		{`version = 3`, false, Line{Kind: LineVersion, Value: "3"}},
		{`checksum = "abc"`, false, Line{Kind: LineIgnored}},
		{`dependencies = [`, false, Line{Kind: LineDepsOpen}},
		{`dependencies = []`, false, Line{Kind: LineDepsInline}},
		{`dependencies = ["a 1.0", "b"]`, false, Line{Kind: LineDepsInline, Values: []string{"a", "b"}}},
		{`dependencies = "nope"`, false, Line{Kind: LineIgnored}},
		{`]`, true, Line{Kind: LineDepsClose}},
		{` "serde_derive 1.0.200",`, true, Line{Kind: LineDepsEntry, Value: "serde_derive"}},
		{` "syn"]`, true, Line{Kind: LineDepsEntry, Value: "syn", Closes: true}},
		{` no quotes`, true, Line{Kind: LineIgnored}},
		{` ""`, true, Line{Kind: LineIgnored}},
		{`no equals sign`, false, Line{Kind: LineIgnored}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line, tt.inList))
		})
	}
}

func TestLineKindString(t *testing.T) {
	assert.Equal(t, "deps-entry", LineDepsEntry.String())
	assert.Equal(t, "unknown", LineKind(99).String())
}
