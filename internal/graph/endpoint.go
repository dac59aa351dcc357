package graph

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Endpoint is a link end as layout engines report it: either a bare node
// ID or a node object carrying an "id" field once the engine has resolved it.
type Endpoint struct {
	ID string
}

// UnmarshalJSON accepts both "id" and {"id": "..."}.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.ID)
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding link endpoint: %w", err)
	}
	e.ID = obj.ID
	return nil
}

// MarshalJSON always writes the bare ID.
func (e Endpoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ID)
}

// Link is an engine-shaped edge whose endpoints may be IDs or objects.
type Link struct {
	Source Endpoint `json:"source"`
	Target Endpoint `json:"target"`
}

// NormalizeLinks converts engine links into plain edges, dropping links
// with an empty endpoint.
func NormalizeLinks(links []Link) []Edge {
	edges := make([]Edge, 0, len(links))
	for _, l := range links {
		if l.Source.ID == "" || l.Target.ID == "" {
			continue
		}
		edges = append(edges, Edge{Source: l.Source.ID, Target: l.Target.ID})
	}
	return edges
}

// DecodeLinks parses a JSON array of engine links.
func DecodeLinks(data []byte) ([]Edge, error) {
	var links []Link
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("decoding links: %w", err)
	}
	return NormalizeLinks(links), nil
}
