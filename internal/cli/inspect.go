package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/parti-studio/parti/pkg/model"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [model.json]",
		Short: "Browse a generated model interactively",
		Long: `Browse a generated model interactively.

The inspector shows the floors of a generated model; selecting a
floor lists its rooms with areas, zones, and adjacency to stairs and
openings. Useful for sanity-checking a packing result without opening
the SVG drawings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0])
			if err != nil {
				return err
			}
			p := tea.NewProgram(newInspectModel(m))
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// InspectModel - Interactive model browser
// =============================================================================

// inspectMode selects which pane the browser shows.
type inspectMode int

const (
	modeFloors inspectMode = iota
	modeRooms
)

// InspectModel is the bubbletea model for browsing a building model.
type InspectModel struct {
	Building *model.BuildingModel
	Mode     inspectMode
	Cursor   int
}

// newInspectModel creates a browser positioned on the ground floor.
func newInspectModel(m *model.BuildingModel) InspectModel {
	return InspectModel{Building: m}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.Mode == modeRooms {
			m.Mode = modeFloors
			return m, nil
		}
		return m, tea.Quit
	case "up", "k":
		if m.Mode == modeFloors && m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Mode == modeFloors && m.Cursor < len(m.Building.Floors)-1 {
			m.Cursor++
		}
	case "enter":
		if m.Mode == modeFloors {
			m.Mode = modeRooms
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	if m.Mode == modeRooms {
		return m.roomView()
	}
	return m.floorView()
}

func (m InspectModel) floorView() string {
	var b strings.Builder

	fp := m.Building.Fingerprint
	if len(fp) > 12 {
		fp = fp[:12]
	}
	b.WriteString(StyleTitle.Render("Building " + fp))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ rooms  q quit"))
	b.WriteString("\n\n")

	for i, f := range m.Building.Floors {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%sFloor %d  %s", cursor, f.Index,
			listDimStyle.Render(fmt.Sprintf("%d rooms · %d openings · %d stairs",
				len(f.Rooms), len(f.Openings), len(f.Stairs))))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Building.Floors))))
	return b.String()
}

func (m InspectModel) roomView() string {
	var b strings.Builder
	f := m.Building.Floors[m.Cursor]

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Floor %d", f.Index)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := [][]string{}
	for _, r := range f.Rooms {
		rows = append(rows, []string{
			r.Name,
			string(r.Zone),
			fmt.Sprintf("%.1f m²", r.Polygon.Area()),
			fmt.Sprintf("%.1f m²", r.TargetArea),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Room", "Zone", "Area", "Target").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return listNormalStyle
			}
			return listDimStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}
