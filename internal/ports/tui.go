package ports

import "context"

// TUIService provides operations needed by the TUI.
// This abstraction allows the TUI to be tested without real archives or network.
// Results are published to the shared session store rather than returned.
type TUIService interface {
	// Analyze ingests a local .zip path or a GitHub URL.
	Analyze(ctx context.Context, source string) error

	// Content returns the decoded content of an entry in the current archive.
	Content(path string) (string, error)

	// Copy places text on the clipboard.
	Copy(text string) error

	// Save writes content for the archive entry path into the output directory
	// and returns the path written.
	Save(path, content string) (string, error)
}
