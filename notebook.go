package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// notebookDocument mirrors the subset of the .ipynb JSON schema the
// serializer cares about. Cell sources and outputs may be either a
// single string or a list of line strings.
type notebookDocument struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string           `json:"cell_type"`
	Source   notebookLines    `json:"source"`
	Outputs  []notebookOutput `json:"outputs"`
}

type notebookOutput struct {
	Text notebookLines            `json:"text"`
	Data map[string]notebookLines `json:"data"`
}

// notebookLines unmarshals both the string and []string forms used by
// notebook files.
type notebookLines string

func (n *notebookLines) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*n = notebookLines(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*n = notebookLines(strings.Join(many, ""))
	return nil
}

// renderNotebook flattens a Jupyter notebook into an ordered sequence of
// cell sub-blocks, each tagged with its index and type. Outputs are only
// included when displayOutputs is set. Returns ok=false when the content
// is not parseable notebook JSON, in which case the caller should fall
// back to emitting the raw file.
func renderNotebook(content []byte, displayOutputs bool) (string, bool) {
	var nb notebookDocument
	if err := json.Unmarshal(content, &nb); err != nil {
		return "", false
	}
	if nb.Cells == nil {
		return "", false
	}

	var sb strings.Builder
	for i, cell := range nb.Cells {
		switch cell.CellType {
		case "code":
			fmt.Fprintf(&sb, "// Cell #%d (code)\n", i)
			sb.WriteString(string(cell.Source))
			sb.WriteString("\n")
			if displayOutputs && len(cell.Outputs) > 0 {
				fmt.Fprintf(&sb, "// Cell #%d (outputs)\n", i)
				for _, out := range cell.Outputs {
					if out.Text != "" {
						sb.WriteString(string(out.Text))
						sb.WriteString("\n")
					} else if text, ok := out.Data["text/plain"]; ok && text != "" {
						sb.WriteString(string(text))
						sb.WriteString("\n")
					}
				}
			}
		case "markdown":
			fmt.Fprintf(&sb, "// Cell #%d (markdown)\n", i)
			sb.WriteString(string(cell.Source))
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n"), true
}
