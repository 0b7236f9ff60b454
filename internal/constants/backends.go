package constants

import "strings"

// BackendKind selects which store implementation serves a request.
type BackendKind int

const (
	BackendUnknown BackendKind = iota
	BackendRelational
	BackendEmbedded
	BackendWideColumn
)

// AllBackends lists every selectable backend in a stable order.
var AllBackends = []BackendKind{BackendRelational, BackendEmbedded, BackendWideColumn}

var backendTags = map[BackendKind]string{
	BackendRelational: "postgres",
	BackendEmbedded:   "sqlite",
	BackendWideColumn: "bigtable",
}

// Tags used by older clients for the same stores.
var legacyBackendTags = map[string]BackendKind{
	"duckdb": BackendEmbedded,
	"scylla": BackendWideColumn,
}

// Tag returns the URL tag of the backend.
func (k BackendKind) Tag() string {
	if tag, ok := backendTags[k]; ok {
		return tag
	}
	return "unknown"
}

func (k BackendKind) String() string { return k.Tag() }

// ParseBackend resolves a URL tag (current or legacy) to a backend kind.
func ParseBackend(tag string) (BackendKind, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for kind, t := range backendTags {
		if t == tag {
			return kind, true
		}
	}
	if kind, ok := legacyBackendTags[tag]; ok {
		return kind, true
	}
	return BackendUnknown, false
}
