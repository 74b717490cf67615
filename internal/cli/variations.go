package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/catalog/variations"
	"github.com/matzehuels/flamelink/pkg/library/std"
	"github.com/matzehuels/flamelink/pkg/param"
	"github.com/matzehuels/flamelink/pkg/resolve"
)

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// newTable returns a table in the CLI's house style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle.Padding(0, 1)
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			default:
				return lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
			}
		})
}

// variationsCommand creates the variations command.
func (c *CLI) variationsCommand() *cobra.Command {
	var (
		kind  string
		check bool
	)

	cmd := &cobra.Command{
		Use:   "variations [name]",
		Short: "List the variation catalog",
		Long: `List the variation catalog, or describe one variation.

Filter the listing by geometry or pass with --kind (2d, 3d, base, post, dc).
Naming a variation prints its parameters, dependencies and template.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return variations.Default().Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			cat := variations.Default()
			if check {
				return checkCatalog(cat)
			}
			if len(args) == 1 {
				d, err := cat.Lookup(args[0])
				if err != nil {
					return err
				}
				printVariation(w, d)
				return nil
			}
			var k catalog.Kind
			if kind != "" {
				parsed, err := catalog.ParseKind(kind)
				if err != nil {
					return err
				}
				k = parsed
			}
			descs := cat.Filter(k)
			fmt.Fprintln(w, variationTable(descs).Render())
			printDetail("%d of %d variations", len(descs), cat.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "filter by kind: 2d, 3d, base, post, dc")
	cmd.Flags().BoolVar(&check, "check", false, "resolve every variation's dependencies and report failures")
	return cmd
}

// checkCatalog resolves each variation on its own against the library.
func checkCatalog(cat *catalog.Catalog) error {
	errs := resolve.CheckCatalog(cat, std.Default())
	for _, err := range errs {
		printError("%v", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d variations do not resolve", len(errs), cat.Len())
	}
	printSuccess("All %d variations resolve", cat.Len())
	return nil
}

func variationTable(descs []*catalog.Descriptor) *table.Table {
	t := newTable("Variation", "Kinds", "Pass", "Params", "Depends on")
	for _, d := range descs {
		names := make([]string, 0, len(d.Params))
		for _, p := range d.Params {
			if !p.IsDerived() {
				names = append(names, p.Name)
			}
		}
		t.Row(d.Name, d.Kinds.String(), d.Pass().String(), dash(strings.Join(names, ", ")), dash(strings.Join(d.Dependencies, ", ")))
	}
	return t
}

func printVariation(w io.Writer, d *catalog.Descriptor) {
	fmt.Fprintln(w, StyleTitle.Render(d.Name))
	if d.Doc != "" {
		printDetail("%s", d.Doc)
	}
	fmt.Fprintln(w)
	printKeyValue("kinds", d.Kinds.String())
	printKeyValue("pass", d.Pass().String())
	printKeyValue("depends on", dash(strings.Join(d.Dependencies, ", ")))

	if len(d.Params) > 0 {
		fmt.Fprintln(w)
		t := newTable("Param", "Type", "Default", "Range", "Notes")
		for _, p := range d.Params {
			t.Row(p.Name, p.Kind.String(), paramDefault(p), paramRange(p), paramNotes(p))
		}
		fmt.Fprintln(w, t.Render())
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleDim.Render(d.Template.Source()))
}

func paramDefault(p param.Spec) string {
	if p.IsDerived() {
		return "-"
	}
	if i := int(p.Default); i >= 0 && i < len(p.Choices) && float64(i) == p.Default {
		return p.Choices[i]
	}
	return strconv.FormatFloat(p.Default, 'g', -1, 64)
}

func paramRange(p param.Spec) string {
	if !p.Bounded {
		return "-"
	}
	return fmt.Sprintf("[%g, %g]", p.Min, p.Max)
}

func paramNotes(p param.Spec) string {
	var notes []string
	if p.IsDerived() {
		notes = append(notes, "derived")
	}
	if p.NonZero {
		notes = append(notes, "non-zero")
	}
	if len(p.Choices) > 0 {
		notes = append(notes, strings.Join(p.Choices, "|"))
	}
	return dash(strings.Join(notes, ", "))
}

// libraryCommand creates the library command.
func (c *CLI) libraryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "library [id]",
		Short: "List the shared library functions",
		Long: `List the shared library functions that variations depend on, or print one
function's source.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			lib := std.Default()
			if len(args) == 1 {
				fn, err := lib.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(w, StyleTitle.Render(fn.ID))
				printKeyValue("requires", dash(strings.Join(fn.Requires, ", ")))
				printKeyValue("init", dash(fn.Init))
				fmt.Fprintln(w)
				fmt.Fprintln(w, StyleDim.Render(fn.Source))
				return nil
			}

			users := dependents(variations.Default())
			t := newTable("Function", "Requires", "Init", "Used by")
			for _, id := range lib.IDs() {
				fn, _ := lib.Get(id)
				t.Row(id, dash(strings.Join(fn.Requires, ", ")), dash(fn.Init), strconv.Itoa(users[id]))
			}
			fmt.Fprintln(w, t.Render())
			printDetail("%d functions", lib.Len())
			return nil
		},
	}
}

// dependents counts the variations that name each library id directly.
func dependents(cat *catalog.Catalog) map[string]int {
	out := make(map[string]int)
	for _, d := range cat.All() {
		for _, id := range d.Dependencies {
			out[id]++
		}
	}
	return out
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
