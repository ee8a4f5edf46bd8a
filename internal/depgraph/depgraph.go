// Package depgraph implements the Dependency Analyzer from spec.md §4.7:
// it collects top-level schema declarators from a cleaned source, builds
// an identifier reference graph between them, computes connected
// components, and renders one dependency-inlined source fragment per
// component.
package depgraph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"zodguard/internal/config"
	"zodguard/internal/issue"
	"zodguard/internal/synx"
)

// Metrics summarizes one SchemaGroup's rendered code.
type Metrics struct {
	SchemaCount int
	TotalLines  int
	Complexity  float64
}

// SchemaGroup is one connected component of the schema reference graph,
// rendered as a single self-contained, dependency-inlined fragment.
type SchemaGroup struct {
	SchemaNames []string
	Code        string
	Metrics     Metrics
}

// Analyze runs the Dependency Analyzer over source (the orchestrator's
// cleaned_code, re-parsed), returning ordered schema groups per spec.md
// §4.7 steps 6-7, plus any warning issues from rendering failures.
func Analyze(ctx context.Context, source []byte, cfg config.Config) ([]SchemaGroup, []issue.Issue, error) {
	tree, err := synx.Parse(ctx, source)
	if err != nil {
		return nil, nil, fmt.Errorf("depgraph: parse cleaned code: %w", err)
	}
	defer tree.Close()

	order, declarators := collectDeclarators(tree.Root())
	if len(declarators) == 0 {
		return nil, nil, nil
	}

	forward, reverse := buildEdges(source, order, declarators)
	components := connectedComponents(order, forward, reverse)

	var groups []SchemaGroup
	var issues []issue.Issue
	for _, component := range components {
		group, warning, ok := renderGroup(source, component, declarators, forward, reverse, cfg)
		if !ok {
			issues = append(issues, warning)
			continue
		}
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Metrics, groups[j].Metrics
		if a.SchemaCount != b.SchemaCount {
			return a.SchemaCount > b.SchemaCount
		}
		if a.Complexity != b.Complexity {
			return a.Complexity > b.Complexity
		}
		return a.TotalLines > b.TotalLines
	})

	return groups, issues, nil
}

// collectDeclarators visits every variable declarator at any depth and
// records its first-seen order alongside a name -> declarator map.
func collectDeclarators(node *synx.Node) ([]string, map[string]*synx.Node) {
	order := make([]string, 0)
	declarators := make(map[string]*synx.Node)
	var walk func(n *synx.Node)
	walk = func(n *synx.Node) {
		if n.Kind() == "variable_declarator" {
			name := n.Field("name")
			if name != nil {
				if _, seen := declarators[name.Text()]; !seen {
					order = append(order, name.Text())
				}
				declarators[name.Text()] = n
			}
		}
		for _, c := range n.NamedChildren() {
			walk(c)
		}
	}
	walk(node)
	return order, declarators
}

// buildEdges walks each declarator's initializer for identifier
// references to other declared names (spec.md §4.7 step 2).
func buildEdges(source []byte, order []string, declarators map[string]*synx.Node) (forward, reverse map[string]map[string]bool) {
	forward = make(map[string]map[string]bool, len(order))
	reverse = make(map[string]map[string]bool, len(order))
	for _, name := range order {
		forward[name] = map[string]bool{}
		reverse[name] = map[string]bool{}
	}
	for _, name := range order {
		value := declarators[name].Field("value")
		if value == nil {
			continue
		}
		refs := map[string]bool{}
		collectReferences(value, declarators, name, refs)
		for ref := range refs {
			forward[name][ref] = true
			reverse[ref][name] = true
		}
	}
	return forward, reverse
}

func collectReferences(node *synx.Node, declarators map[string]*synx.Node, self string, out map[string]bool) {
	if node.Kind() == "identifier" {
		name := node.Text()
		if name != self {
			if _, ok := declarators[name]; ok {
				out[name] = true
			}
		}
		return
	}
	for _, c := range node.NamedChildren() {
		collectReferences(c, declarators, self, out)
	}
}

// connectedComponents computes undirected connected components over the
// union of forward and reverse edges, via a stable-order visited-set DFS
// keyed on schema name (spec.md §4.7 step 3).
func connectedComponents(order []string, forward, reverse map[string]map[string]bool) [][]string {
	visited := make(map[string]bool, len(order))
	var components [][]string

	for _, start := range order {
		if visited[start] {
			continue
		}
		var component []string
		stack := []string{start}
		visited[start] = true
		for len(stack) > 0 {
			name := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, name)
			neighbors := make([]string, 0, len(forward[name])+len(reverse[name]))
			for n := range forward[name] {
				neighbors = append(neighbors, n)
			}
			for n := range reverse[name] {
				neighbors = append(neighbors, n)
			}
			sort.Strings(neighbors)
			for _, n := range neighbors {
				if !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		// Preserve order's relative ordering within the component rather
		// than DFS discovery order.
		inComponent := make(map[string]bool, len(component))
		for _, n := range component {
			inComponent[n] = true
		}
		stable := make([]string, 0, len(component))
		for _, n := range order {
			if inComponent[n] {
				stable = append(stable, n)
			}
		}
		components = append(components, stable)
	}
	return components
}

// renderGroup implements spec.md §4.7 step 4-5: root choice, inlining,
// optional array unwrap, printing, and metrics.
func renderGroup(source []byte, members []string, declarators map[string]*synx.Node, forward, reverse map[string]map[string]bool, cfg config.Config) (SchemaGroup, issue.Issue, bool) {
	root := chooseRoot(members, forward, reverse)

	names := make([]string, 0, len(members))
	names = append(names, root)
	for _, m := range members {
		if m != root {
			names = append(names, m)
		}
	}

	value := declarators[root].Field("value")
	if value == nil {
		return SchemaGroup{}, issue.Issue{
			Severity: issue.Warning,
			Line:     1,
			Message:  fmt.Sprintf("Schema grouping failed: root '%s' has no initializer", root),
			NodeKind: "program",
		}, false
	}

	if cfg.SchemaUnification.UnwrapArrayRoot {
		if inner, ok := unwrapZodArray(value); ok {
			value = inner
		}
	}

	code := renderNode(source, value, declarators, map[string]bool{root: true})
	complexity := float64(strings.Count(code, "z.")) +
		2*float64(strings.Count(code, "object(")) +
		1.5*float64(strings.Count(code, "array("))

	return SchemaGroup{
		SchemaNames: names,
		Code:        code,
		Metrics: Metrics{
			SchemaCount: len(members),
			TotalLines:  strings.Count(code, "\n") + 1,
			Complexity:  complexity,
		},
	}, issue.Issue{}, true
}

// chooseRoot picks the member with at least one outgoing edge and no
// incoming edge; absent that, the first member in stable order.
func chooseRoot(members []string, forward, reverse map[string]map[string]bool) string {
	for _, m := range members {
		if len(forward[m]) > 0 && len(reverse[m]) == 0 {
			return m
		}
	}
	return members[0]
}

// unwrapZodArray reports whether node is a call `z.array(inner)` with
// exactly one non-spread argument, returning that argument.
func unwrapZodArray(node *synx.Node) (*synx.Node, bool) {
	if node.Kind() != "call_expression" {
		return nil, false
	}
	fn := node.Field("function")
	if fn == nil || fn.Kind() != "member_expression" {
		return nil, false
	}
	property := fn.Field("property")
	object := fn.Field("object")
	if property == nil || object == nil || property.Text() != "array" || object.Kind() != "identifier" || object.Text() != "z" {
		return nil, false
	}
	argsNode := node.Field("arguments")
	if argsNode == nil {
		return nil, false
	}
	args := argsNode.NamedChildren()
	if len(args) != 1 || args[0].Kind() == "spread_element" {
		return nil, false
	}
	return args[0], true
}

// renderNode reproduces node's original text, substituting any
// identifier reference to another declared schema with a recursively
// inlined copy of that schema's initializer. visiting guards against
// infinite recursion on a reference cycle.
func renderNode(source []byte, node *synx.Node, declarators map[string]*synx.Node, visiting map[string]bool) string {
	if node.Kind() == "identifier" {
		name := node.Text()
		target, ok := declarators[name]
		if !ok || visiting[name] {
			return node.Text()
		}
		value := target.Field("value")
		if value == nil {
			return node.Text()
		}
		visiting[name] = true
		rendered := renderNode(source, value, declarators, visiting)
		delete(visiting, name)
		return rendered
	}

	children := node.NamedChildren()
	if len(children) == 0 {
		return node.Text()
	}

	var b strings.Builder
	cursor := node.StartByte()
	for _, c := range children {
		b.Write(source[cursor:c.StartByte()])
		b.WriteString(renderNode(source, c, declarators, visiting))
		cursor = c.EndByte()
	}
	b.Write(source[cursor:node.EndByte()])
	return b.String()
}
