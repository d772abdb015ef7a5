// Package markup defines the abstract markup tree the view walker consumes,
// and an adapter producing it from an HTML template via golang.org/x/net/html.
// The exact tree representation of the source template is a collaborator
// concern; the walker only sees tag names, ordered attributes and children.
package markup

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attribute is one name/value pair on an element, in declaration order
type Attribute struct {
	Name  string
	Value string
}

// Node is one node of the markup tree. Element nodes carry Tag, Attributes
// and Children; text nodes carry Text and an empty Tag.
type Node struct {
	Tag        string
	Text       string
	Attributes []Attribute
	Children   []*Node
}

// IsText reports whether the node is a text node
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// Attr returns the value of the named attribute and whether it is present
func (n *Node) Attr(name string) (string, bool) {
	for _, attr := range n.Attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Parse parses an HTML template fragment into the abstract node tree.
// Attribute order is preserved; comments and doctypes are dropped.
func Parse(content, url string) ([]*Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	fragment, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing template %s", url)
	}

	nodes := make([]*Node, 0, len(fragment))
	for _, root := range fragment {
		if node := convert(root); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func convert(src *html.Node) *Node {
	switch src.Type {
	case html.TextNode:
		if strings.TrimSpace(src.Data) == "" {
			return nil
		}
		return &Node{Text: src.Data}
	case html.ElementNode:
		node := &Node{Tag: src.Data}
		for _, attr := range src.Attr {
			node.Attributes = append(node.Attributes, Attribute{Name: attr.Key, Value: attr.Val})
		}
		for child := src.FirstChild; child != nil; child = child.NextSibling {
			if converted := convert(child); converted != nil {
				node.Children = append(node.Children, converted)
			}
		}
		return node
	default:
		return nil
	}
}
