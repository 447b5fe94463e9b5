package results

// Namespace renders recorded runs as the plain-data tree path expressions
// walk: maps keyed by string, []any sequences, and scalars. The integration
// name is the root key, so ":wandb:runs[0][history]" resolves through
// {"wandb": {"runs": [...], "runs_len": N}}.
func Namespace(integration string, runs []RunRecord) map[string]any {
	runList := make([]any, len(runs))
	for i, r := range runs {
		runList[i] = runTree(r)
	}
	return map[string]any{
		integration: map[string]any{
			"runs":     runList,
			"runs_len": len(runs),
		},
	}
}

// runTree renders one run record.
func runTree(r RunRecord) map[string]any {
	history := make([]any, len(r.History))
	for i, row := range r.History {
		history[i] = mapTree(row)
	}

	telemetry := make([]any, len(r.Telemetry))
	for i, codes := range r.Telemetry {
		section := make([]any, len(codes))
		for j, code := range codes {
			section[j] = code
		}
		telemetry[i] = section
	}

	tree := map[string]any{
		"id":        r.ID,
		"exitcode":  r.ExitCode,
		"history":   history,
		"telemetry": telemetry,
	}
	if r.Config != nil {
		tree["config"] = mapTree(r.Config)
	}
	if r.Summary != nil {
		tree["summary"] = mapTree(r.Summary)
	}
	return tree
}

// mapTree normalizes nested values so every mapping is map[string]any and
// every sequence is []any, regardless of how the record was produced.
func mapTree(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = valueTree(v)
	}
	return out
}

func valueTree(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return mapTree(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = valueTree(elem)
		}
		return out
	default:
		return v
	}
}
