package notice

import "testing"

func TestNotices(t *testing.T) {
	tests := []struct {
		n           Notice
		str         string
		destructive bool
	}{
		{CodeLoaded(), "Code loaded: Shared code has been loaded successfully", false},
		{EmptyRun(), "Error: Please enter some code to run", true},
		{EmptyDownload(), "Error: Please enter some code to download", true},
		{Downloaded("python"), "Downloaded: Your python code has been downloaded", false},
		{ExecutionFailed(), "Execution failed: There was an error running your code", true},
		{Copied(), "Copied!: Code copied to clipboard", false},
		{LinkCopied(), "Link copied!: Share link has been copied to clipboard", false},
		{CopyFailed(), "Error: Failed to copy code", true},
		{LinkCopyFailed(), "Error: Failed to copy link", true},
		{Notice{Title: "Bare"}, "Bare", false},
	}

	for _, tt := range tests {
		if tt.n.String() != tt.str {
			t.Errorf("expected %q, got %q", tt.str, tt.n.String())
		}
		if tt.n.IsDestructive() != tt.destructive {
			t.Errorf("%q: expected destructive=%v", tt.str, tt.destructive)
		}
	}
}
