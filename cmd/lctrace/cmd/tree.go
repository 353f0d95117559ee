package cmd

import (
	"fmt"
	"strings"

	"github.com/go-drift/lifecycle/cmd/lctrace/internal/config"
	"github.com/go-drift/lifecycle/cmd/lctrace/internal/scenario"
	"github.com/go-drift/lifecycle/pkg/diagnostics"
	"github.com/go-drift/lifecycle/pkg/lifecycle"
)

func init() {
	RegisterCommand(&Command{
		Name:  "tree",
		Short: "Show the tree and resolved sources",
		Long: `Build the tree a scenario declares and print it with the App, Page and
Stage source each node resolved. Steps are not replayed.`,
		Usage: "lctrace tree <scenario>",
		Run:   runTree,
	})
}

func runTree(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("scenario file is required\n\nUsage: lctrace tree <scenario>")
	}

	res, err := config.Resolve(args[0])
	if err != nil {
		return err
	}
	tree, err := scenario.Build(res.Scenario)
	if err != nil {
		return err
	}

	children := make(map[string][]string)
	var roots []string
	for _, id := range tree.IDs() {
		if parent, _ := tree.Parent(id); parent != "" {
			children[parent] = append(children[parent], id)
		} else {
			roots = append(roots, id)
		}
	}

	fmt.Fprintln(stdout, res.Scenario.Name)
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		_, slot := tree.Parent(id)
		fmt.Fprintf(stdout, "%s%s\n", strings.Repeat("  ", depth+1), describeNode(tree.Node(id), slot))
		for _, child := range children[id] {
			walk(child, depth+1)
		}
	}
	for _, id := range roots {
		walk(id, 0)
	}
	return nil
}

func describeNode(node any, slot string) string {
	var b strings.Builder
	b.WriteString(diagnostics.Describe(node))
	if slot != "" {
		fmt.Fprintf(&b, " [%s]", slot)
	}
	if h, ok := node.(lifecycle.AppHost); ok {
		fmt.Fprintf(&b, " app=%s", describeSource(h.AppSource()))
	}
	if h, ok := node.(lifecycle.PageHost); ok {
		fmt.Fprintf(&b, " page=%s", describeSource(h.PageSource()))
	}
	if h, ok := node.(lifecycle.StageHost); ok {
		fmt.Fprintf(&b, " stage=%s", describeSource(h.StageSource()))
	}
	return b.String()
}

func describeSource(src any) string {
	if src == nil {
		return "-"
	}
	return diagnostics.Describe(src)
}
