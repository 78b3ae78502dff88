package registry

import (
	"strings"

	derrors "github.com/blocklang/designer/internal/errors"
)

// Keyer yields a repository locator key of the form website/owner/repoName.
type Keyer interface {
	Key() string
}

// Locator identifies a third-party component package by its repository.
type Locator struct {
	Website  string `json:"website" yaml:"website"`
	Owner    string `json:"owner" yaml:"owner"`
	RepoName string `json:"repoName" yaml:"repoName"`
}

// Key returns website/owner/repoName.
func (l Locator) Key() string {
	return l.Website + "/" + l.Owner + "/" + l.RepoName
}

// String implements fmt.Stringer.
func (l Locator) String() string {
	return l.Key()
}

// RepoKey is the precomputed string form of a Locator.
type RepoKey string

// Key implements Keyer.
func (k RepoKey) Key() string {
	return string(k)
}

// ParseLocator splits website/owner/repoName into a Locator.
func ParseLocator(s string) (Locator, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return Locator{}, derrors.ErrInvalidLocator(s)
	}
	for _, part := range parts {
		if part == "" {
			return Locator{}, derrors.ErrInvalidLocator(s)
		}
	}

	return Locator{Website: parts[0], Owner: parts[1], RepoName: parts[2]}, nil
}
