package fancy

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"
)

// ComponentTree creates a component-specific styled tree
type ComponentTree struct {
	tree *tree.Tree
}

// NewComponentTree creates a new component tree with appropriate styling
func NewComponentTree(title string) *ComponentTree {
	t := Tree()
	t.Root(title)
	return &ComponentTree{tree: t}
}

// Tree returns the underlying tree
func (c *ComponentTree) Tree() *tree.Tree {
	return c.tree
}

// AddChild adds a child node to the root branch
func (c *ComponentTree) AddChild(child any) *tree.Tree {
	return c.tree.Child(child)
}

// AddSection adds a titled, counted section with one child per item and
// returns it. Empty sections get a "none" placeholder.
func (c *ComponentTree) AddSection(title string, items []string) *tree.Tree {
	section := BranchNode(title, fmt.Sprintf("(%d)", len(items)))
	if len(items) == 0 {
		section.Child(InfoStyle.Render("none"))
	}
	for _, item := range items {
		section.Child(item)
	}
	c.tree.Child(section)
	return section
}

// String renders the tree.
func (c *ComponentTree) String() string {
	return c.tree.String()
}

// ScriptTree creates a tree rooted at a script name.
func ScriptTree(name string) *ComponentTree {
	return NewComponentTree(ScriptText(name))
}
