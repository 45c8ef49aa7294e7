package ingest

import (
	"errors"
	"fmt"

	"github.com/Uday9909/ExplainMyRepo/internal/analysis"
	"github.com/Uday9909/ExplainMyRepo/internal/archive"
	"github.com/Uday9909/ExplainMyRepo/internal/fetch"
)

// Notice is a short user-facing message about an ingestion.
type Notice struct {
	Title       string
	Description string
	Failed      bool
}

func (n Notice) String() string {
	return n.Title + ": " + n.Description
}

// Describe maps an ingestion error to the notice shown to the user.
func Describe(err error) Notice {
	switch {
	case errors.Is(err, ErrEmptySource):
		return Notice{"Empty URL", "Please enter a GitHub repo URL or a .zip path.", true}
	case errors.Is(err, ErrInvalidFileType):
		return Notice{"Invalid File Type", "Please upload a ZIP file containing your repository.", true}
	case errors.Is(err, fetch.ErrInvalidRepoURL):
		return Notice{"Invalid URL", "Please enter a valid GitHub repository URL.", true}
	case errors.Is(err, ErrInProgress):
		return Notice{"Busy", "An analysis is already in progress.", true}
	case errors.Is(err, fetch.ErrRemoteFetchFailed):
		return Notice{"Error", "Failed to analyze GitHub repository.", true}
	case errors.Is(err, archive.ErrEmptyInput), errors.Is(err, archive.ErrMalformedArchive):
		return Notice{"Error", "Failed to analyze the repository: not a readable zip archive.", true}
	default:
		return Notice{"Error", "Failed to analyze the repository.", true}
	}
}

// Success is the notice for a completed ingestion of source.
func Success(source string, r *analysis.Result) Notice {
	if IsURL(source) {
		if repo, err := fetch.ParseRepoURL(source); err == nil {
			return Notice{Title: "GitHub Repo Analyzed", Description: fmt.Sprintf("Successfully analyzed %s.", repo)}
		}
	}
	return Notice{Title: "Analysis Complete!", Description: fmt.Sprintf("Successfully analyzed %s.", r.ProjectName)}
}
