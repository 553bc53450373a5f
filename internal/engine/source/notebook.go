package source

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type notebookFile struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string          `json:"cell_type"`
	Source   json.RawMessage `json:"source"`
}

// notebookSource concatenates the code cells of a Jupyter notebook into one
// Python module. IPython escape lines ("%magic", "!shell") are commented out
// in place so byte offsets stay aligned with the cell text.
func notebookSource(raw []byte) ([]byte, error) {
	var nb notebookFile
	if err := json.Unmarshal(raw, &nb); err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}

	var out bytes.Buffer
	for i, cell := range nb.Cells {
		if cell.CellType != "code" {
			continue
		}
		text, err := cellText(cell.Source)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		for _, line := range bytes.SplitAfter([]byte(text), []byte("\n")) {
			out.Write(commentEscapeLine(line))
		}
		if out.Len() > 0 && out.Bytes()[out.Len()-1] != '\n' {
			out.WriteByte('\n')
		}
	}
	return out.Bytes(), nil
}

func cellText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single, nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return "", fmt.Errorf("cell source must be a string or list of strings")
	}
	var b bytes.Buffer
	for _, line := range lines {
		b.WriteString(line)
	}
	return b.String(), nil
}

func commentEscapeLine(line []byte) []byte {
	trimmed := bytes.TrimLeft(line, " \t")
	if len(trimmed) == 0 || (trimmed[0] != '%' && trimmed[0] != '!') {
		return line
	}
	out := append([]byte(nil), line...)
	out[len(line)-len(trimmed)] = '#'
	return out
}
