package bridge

import "testing"

func TestTopicSegmentStripsLeadingSlash(t *testing.T) {
	cases := map[string]string{
		"/turtle1/cmd_vel": "turtle1/cmd_vel",
		"/":                "",
		"bare":             "bare",
	}
	for in, want := range cases {
		if got := topicSegment(in); got != want {
			t.Errorf("topicSegment(%q) = %q, want %q", in, got, want)
		}
	}
}
