// Package notice holds the short notifications shown after playground actions.
package notice

// Variant selects how a notice is styled.
type Variant string

const (
	Default     Variant = "default"
	Destructive Variant = "destructive"
)

// Notice is a transient message for the user.
type Notice struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// IsDestructive reports whether the notice describes a failure.
func (n Notice) IsDestructive() bool {
	return n.Variant == Destructive
}

func (n Notice) String() string {
	if n.Description == "" {
		return n.Title
	}
	return n.Title + ": " + n.Description
}

// Error returns a destructive notice titled "Error".
func Error(description string) Notice {
	return Notice{Title: "Error", Description: description, Variant: Destructive}
}

func CodeLoaded() Notice {
	return Notice{Title: "Code loaded", Description: "Shared code has been loaded successfully", Variant: Default}
}

func EmptyRun() Notice {
	return Error("Please enter some code to run")
}

func EmptyDownload() Notice {
	return Error("Please enter some code to download")
}

// Downloaded names the language tag of the downloaded code.
func Downloaded(language string) Notice {
	return Notice{Title: "Downloaded", Description: "Your " + language + " code has been downloaded", Variant: Default}
}

func ExecutionFailed() Notice {
	return Notice{Title: "Execution failed", Description: "There was an error running your code", Variant: Destructive}
}

func Copied() Notice {
	return Notice{Title: "Copied!", Description: "Code copied to clipboard", Variant: Default}
}

func LinkCopied() Notice {
	return Notice{Title: "Link copied!", Description: "Share link has been copied to clipboard", Variant: Default}
}

func CopyFailed() Notice {
	return Error("Failed to copy code")
}

func LinkCopyFailed() Notice {
	return Error("Failed to copy link")
}
