package output

import "encoding/json"

// JSONFormatter renders the report as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

func (jf JSONFormatter) Name() string { return "json" }

// Format marshals the report; decimals keep their exact string form
func (jf JSONFormatter) Format(r *Report) ([]byte, error) {
	if jf.Pretty {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}
