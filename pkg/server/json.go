package server

import (
	"encoding/json"
	"net/http"

	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/patch"
	"github.com/vango-dev/vpatch/pkg/treefile"
)

// PatchRequest is the body of POST /patch.
type PatchRequest struct {
	Old *treefile.Node `json:"old,omitempty"`
	New *treefile.Node `json:"new"`
}

// PatchResponse is the reply of POST /patch.
type PatchResponse struct {
	Ops   []OpJSON  `json:"ops"`
	HTML  string    `json:"html"`
	Stats StatsJSON `json:"stats"`
}

// OpJSON is the JSON form of a host.Op.
type OpJSON struct {
	Kind   string `json:"kind"`
	Node   uint32 `json:"node"`
	Parent uint32 `json:"parent,omitempty"`
	Ref    uint32 `json:"ref,omitempty"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
}

// StatsJSON is the JSON form of patch.Stats.
type StatsJSON struct {
	Created      int   `json:"created"`
	Removed      int   `json:"removed"`
	Moved        int   `json:"moved"`
	TextUpdates  int   `json:"textUpdates"`
	HookCalls    int   `json:"hookCalls"`
	HookFailures int   `json:"hookFailures"`
	DurationUS   int64 `json:"durationUs"`
}

// ErrorJSON is the body of every error reply.
type ErrorJSON struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

func opsJSON(ops []host.Op) []OpJSON {
	out := make([]OpJSON, len(ops))
	for i, op := range ops {
		out[i] = OpJSON{
			Kind:   op.Kind.String(),
			Node:   uint32(op.Node),
			Parent: uint32(op.Parent),
			Ref:    uint32(op.Ref),
			Name:   op.Name,
			Value:  op.Value,
		}
	}
	return out
}

func statsJSON(s patch.Stats) StatsJSON {
	return StatsJSON{
		Created:      s.Created,
		Removed:      s.Removed,
		Moved:        s.Moved,
		TextUpdates:  s.TextUpdates,
		HookCalls:    s.HookCalls,
		HookFailures: s.HookFailures,
		DurationUS:   s.Duration.Microseconds(),
	}
}

func errorJSON(err error) ErrorJSON {
	return ErrorJSON{Code: errors.Code(err), Error: err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
