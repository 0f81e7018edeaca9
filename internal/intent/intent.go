package intent

// Intent is the resolved question: which metric to run and with what
// parameters. Params hold scalar values only (integer identifiers or simple
// literals); name-valued parameters must be resolved to identifiers before
// an Intent reaches the registry.
type Intent struct {
	Metric string         `json:"metric"`
	Params map[string]any `json:"params"`
}
