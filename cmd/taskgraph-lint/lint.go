package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Strob0t/taskgraph/internal/domain/workflow"
)

// result is the lint outcome for one file.
type result struct {
	Path   string          `json:"path"`
	Name   string          `json:"workflow_name,omitempty"`
	Report workflow.Report `json:"report"`
	Checks workflow.Checks `json:"checks"`
	Order  []string        `json:"order,omitempty"`
	Err    string          `json:"error,omitempty"`
}

func (r *result) ok() bool {
	return r.Err == "" && r.Report.Valid
}

// decodeWorkflow reads a workflow document. Files ending in .yaml or .yml
// are YAML; everything else is JSON.
func decodeWorkflow(path string, data []byte) (workflow.Workflow, error) {
	var w workflow.Workflow
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &w); err != nil {
			return w, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&w); err != nil {
			return w, fmt.Errorf("decode json: %w", err)
		}
	}
	return w, nil
}

// lintFile validates one workflow file. Decode and read failures are
// reported in the result rather than returned.
func lintFile(path string, withOrder bool) result {
	res := result{Path: path}
	data, err := os.ReadFile(path) //nolint:gosec // paths come from the command line
	if err != nil {
		res.Err = err.Error()
		return res
	}
	w, err := decodeWorkflow(path, data)
	if err != nil {
		res.Err = err.Error()
		return res
	}

	w = workflow.Normalize(w)
	res.Name = w.Name
	res.Report = workflow.Validate(&w)
	res.Checks = workflow.ComputeChecks(&w)

	if withOrder && res.Checks.IsDAG {
		if order, err := workflow.TopologicalSort(w.TaskIDs(), w.Flows); err == nil {
			res.Order = order
		}
	}
	return res
}

// writeText prints results in a human readable form.
func writeText(out io.Writer, results []result) {
	for i := range results {
		r := &results[i]
		switch {
		case r.Err != "":
			fmt.Fprintf(out, "%s: error: %s\n", r.Path, r.Err)
		case r.Report.Valid:
			fmt.Fprintf(out, "%s: ok (%q)\n", r.Path, r.Name)
		default:
			fmt.Fprintf(out, "%s: invalid (%q)\n", r.Path, r.Name)
			for _, m := range r.Report.Messages {
				fmt.Fprintf(out, "  - %s\n", m)
			}
		}
		if r.Err == "" && r.Checks.HasUnassigned {
			fmt.Fprintf(out, "  note: has unassigned tasks\n")
		}
		if len(r.Order) > 0 {
			fmt.Fprintf(out, "  order: %s\n", strings.Join(r.Order, " → "))
		}
	}
}

// writeJSON prints results as a JSON array.
func writeJSON(out io.Writer, results []result) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func lintAll(paths []string, withOrder bool) (results []result, failed bool) {
	results = make([]result, 0, len(paths))
	for _, p := range paths {
		r := lintFile(p, withOrder)
		if !r.ok() {
			failed = true
		}
		results = append(results, r)
	}
	return results, failed
}
