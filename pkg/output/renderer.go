package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arthur-debert/dsfixtures/pkg/logging"
	"github.com/arthur-debert/dsfixtures/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Pair is one labelled line of a human-readable summary.
type Pair struct {
	Key   string
	Value string
}

// Renderer writes results to w in one format.
type Renderer struct {
	w      io.Writer
	format Format
	styles styles
}

// NewRenderer creates a Renderer. FormatAuto must be resolved by the caller
// (see Format.Resolve); here it behaves as FormatText.
func NewRenderer(w io.Writer, format Format) *Renderer {
	log := logging.GetLogger("output.Renderer")

	r := &Renderer{w: w, format: format}
	if format == FormatTerminal {
		lr := lipgloss.NewRenderer(w)
		r.styles = newStyles(lr)
		log.Debug().Str("colorProfile", fmt.Sprintf("%v", lr.ColorProfile())).Msg("Terminal renderer created")
	} else {
		r.styles = plainStyles()
	}
	return r
}

// Format returns the renderer's format.
func (r *Renderer) Format() Format {
	return r.format
}

// RenderDatasets writes list as a table, or as a JSON/YAML array.
func (r *Renderer) RenderDatasets(list []types.Dataset) error {
	if r.format.Machine() {
		if list == nil {
			list = []types.Dataset{}
		}
		return r.encode(list)
	}
	if len(list) == 0 {
		return r.RenderMessage("No datasets")
	}

	rows := make([][]string, 0, len(list))
	for _, ds := range list {
		rows = append(rows, []string{ds.Name, yesNo(ds.Persistent), ds.CreatedAt.Local().Format(time.DateTime)})
	}

	t := table.New().
		Headers("NAME", "PERSISTENT", "CREATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.styles.header
			case col == 1 && list[row].Persistent:
				return r.styles.persistent
			case col == 1:
				return r.styles.transient
			default:
				return r.styles.cell
			}
		})
	if r.format == FormatTerminal {
		t = t.Border(lipgloss.RoundedBorder()).BorderStyle(r.styles.border)
	} else {
		t = t.Border(lipgloss.HiddenBorder())
	}

	_, err := fmt.Fprintln(r.w, t.String())
	return err
}

// RenderSummary writes v for machine formats and pairs, one per line, for
// human ones.
func (r *Renderer) RenderSummary(v interface{}, pairs ...Pair) error {
	if r.format.Machine() {
		return r.encode(v)
	}
	width := 0
	for _, p := range pairs {
		width = max(width, len(p.Key))
	}
	for _, p := range pairs {
		key := r.styles.key.Render(p.Key + ":")
		pad := strings.Repeat(" ", width-len(p.Key)+1)
		if _, err := fmt.Fprintf(r.w, "%s%s%s\n", key, pad, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// RenderMessage writes a single informational line.
func (r *Renderer) RenderMessage(msg string) error {
	if r.format.Machine() {
		return r.encode(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(r.w, r.styles.message.Render(msg))
	return err
}

// RenderError renders an error message with appropriate styling
func (r *Renderer) RenderError(err error) error {
	if r.format.Machine() {
		return r.encode(map[string]string{"error": err.Error()})
	}
	_, writeErr := fmt.Fprintf(r.w, "%s %s\n", r.styles.errorLabel.Render("Error:"), err.Error())
	return writeErr
}

func (r *Renderer) encode(v interface{}) error {
	switch r.format {
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
