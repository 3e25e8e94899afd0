package languages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"sigs.k8s.io/yaml"
)

func encodeEntries(output string, entries []Entry) (io.Reader, int64, error) {
	var data []byte
	var err error
	switch output {
	case OutputJSON:
		data, err = json.MarshalIndent(entries, "", "  ")
		data = append(data, '\n')
	case OutputYAML:
		data, err = yaml.Marshal(entries)
	case OutputTable:
		data = encodeEntriesAsTable(entries)
	default:
		err = fmt.Errorf("unknown output format: %q", output)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("encoding languages as %q failed: %w", output, err)
	}
	return bytes.NewReader(data), int64(len(data)), nil
}

func encodeEntriesAsTable(entries []Entry) []byte {
	var buf bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Language", "Extensions", "Frameworks"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Name, strings.Join(e.Extensions, " "), strings.Join(e.Frameworks, ", ")})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
	return buf.Bytes()
}
