package command

import "fmt"

// Attach composes child under c. A command can be attached at most once
// and only while still orphan; duplicate child names and attachments that
// would close a cycle are rejected. Composition is a startup-time
// operation and is not safe for concurrent use on the same parent.
func (c *Command) Attach(child *Command) error {
	if child == nil {
		return fmt.Errorf("cannot attach a nil command")
	}
	if child == c {
		return fmt.Errorf("command %q cannot be attached to itself", child.name)
	}
	if child.parent != nil {
		return fmt.Errorf("command %q is already attached under %q", child.name, child.parent.name)
	}
	for node := c; node != nil; node = node.parent {
		if node == child {
			return fmt.Errorf("attaching %q under %q would create a cycle", child.name, c.name)
		}
	}
	if _, taken := c.children[child.name]; taken {
		return fmt.Errorf("command %q already has a subcommand named %q", c.name, child.name)
	}

	child.parent = c
	c.children[child.name] = child
	c.childOrder = append(c.childOrder, child.name)
	return nil
}

// MustAttach is Attach for static tree composition; it panics on the
// construction errors Attach reports.
func MustAttach(parent, child *Command) {
	if err := parent.Attach(child); err != nil {
		panic(err)
	}
}
