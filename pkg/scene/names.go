package scene

import "github.com/df07/go-bpwf/pkg/script"

// nameSet is an insertion ordered set of names with a value per name.
// It also tracks the script identifier each name maps to.
type nameSet[V any] struct {
	order  []string
	values map[string]V
	idents map[string]string
}

func newNameSet[V any]() *nameSet[V] {
	return &nameSet[V]{values: make(map[string]V), idents: make(map[string]string)}
}

func (n *nameSet[V]) add(name string, v V) {
	if _, ok := n.values[name]; !ok {
		n.order = append(n.order, name)
		n.idents[script.Ident(name)] = name
	}
	n.values[name] = v
}

// clash returns the stored name other than name that maps to the same
// script identifier
func (n *nameSet[V]) clash(name string) (string, bool) {
	other, ok := n.idents[script.Ident(name)]
	if !ok || other == name {
		return "", false
	}
	return other, true
}

func (n *nameSet[V]) has(name string) bool {
	_, ok := n.values[name]
	return ok
}

func (n *nameSet[V]) get(name string) (V, bool) {
	v, ok := n.values[name]
	return v, ok
}

func (n *nameSet[V]) remove(name string) {
	if _, ok := n.values[name]; !ok {
		return
	}
	delete(n.values, name)
	delete(n.idents, script.Ident(name))
	for i, o := range n.order {
		if o == name {
			n.order = append(n.order[:i:i], n.order[i+1:]...)
			break
		}
	}
}

func (n *nameSet[V]) names() []string {
	return append([]string(nil), n.order...)
}

func (n *nameSet[V]) clone() *nameSet[V] {
	c := newNameSet[V]()
	for _, name := range n.order {
		c.add(name, n.values[name])
	}
	return c
}
