package search

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// fallback.json is a canned response in the remote wire format, shown when
// the search service is unreachable and no local catalog exists yet.
//
//go:embed fallback.json
var fallbackJSON []byte

// Fallback returns the embedded canned result set with the requested
// query echoed, so the UI stays coherent while offline.
func Fallback(query string) *ResultSet {
	set, err := parseFallback(fallbackJSON)
	if err != nil {
		// The embedded payload is fixed at build time; this is unreachable
		// unless the file is corrupted.
		panic(fmt.Sprintf("invalid embedded fallback data: %v", err))
	}
	set.Query = query
	return set
}

func parseFallback(data []byte) (*ResultSet, error) {
	var decoded searchResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, err
	}
	return &ResultSet{
		Query:    decoded.Query,
		Count:    decoded.Count,
		Articles: mapResults(decoded),
	}, nil
}
