package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/dfm/pkg/errors"
	"github.com/arthur-debert/dfm/pkg/mapping"
	"github.com/pterm/pterm"
)

// MappingRow is one mapping in evaluation order.
type MappingRow struct {
	Index    int      `json:"index"`
	Match    string   `json:"match"`
	Action   string   `json:"action"`
	TargetOS []string `json:"target_os,omitempty"`
	Builtin  bool     `json:"builtin"`
}

// MappingRows describes mappings; the first userCount entries are user
// mappings and the rest built-in.
func MappingRows(mappings []*mapping.Mapping, userCount int) []MappingRow {
	rows := make([]MappingRow, 0, len(mappings))
	for i, m := range mappings {
		rows = append(rows, MappingRow{
			Index:    i + 1,
			Match:    m.Pattern(),
			Action:   describeAction(m),
			TargetOS: m.TargetOS(),
			Builtin:  i >= userCount,
		})
	}
	return rows
}

func describeAction(m *mapping.Mapping) string {
	switch {
	case m.Skip():
		return "skip"
	case m.LinkAsDir() && m.Dest() != "":
		return "link dir as " + m.Dest()
	case m.LinkAsDir():
		return "link dir"
	case m.Dest() != "":
		return "link as " + m.Dest()
	case m.TargetDir() != "":
		return "link under " + m.TargetDir()
	default:
		return "link"
	}
}

// Mappings renders the mapping list as a table. Later rows win when several
// mappings match the same file.
func (r *Renderer) Mappings(mappings []*mapping.Mapping, userCount int) error {
	rows := MappingRows(mappings, userCount)
	if r.format == FormatJSON {
		return r.writeJSON(rows)
	}

	data := pterm.TableData{{"#", "Match", "Action", "OS", "Origin"}}
	for _, row := range rows {
		origin := "user"
		if row.Builtin {
			origin = "builtin"
		}
		osList := strings.Join(row.TargetOS, ",")
		if osList == "" {
			osList = "any"
		}
		data = append(data, []string{
			strconv.Itoa(row.Index),
			row.Match,
			row.Action,
			osList,
			origin,
		})
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(data)
	if r.format != FormatTerminal {
		table = table.WithHeaderStyle(pterm.NewStyle()).WithSeparatorStyle(pterm.NewStyle())
	}
	out, err := table.Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render mappings table")
	}

	_, err = fmt.Fprintln(r.w, out)
	return err
}
