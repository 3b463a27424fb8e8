package bot

import (
	"context"
	"fmt"

	"github.com/mcoot/signalbot/internal/model"
)

// HandlerFunc runs one command. Handlers send their own replies through
// the request; a returned error is reported to the user generically.
type HandlerFunc func(ctx context.Context, req *Request) error

// Command is a keyword bound to a handler
type Command struct {
	Name        string
	Description string
	Handler     HandlerFunc
}

// Table is an ordered, immutable set of commands keyed by keyword
type Table struct {
	order    []string
	commands map[string]Command
}

// NewTable builds a table; later commands replace earlier ones with the same name
func NewTable(cmds ...Command) *Table {
	t := &Table{commands: make(map[string]Command, len(cmds))}
	t.add(cmds)
	return t
}

func (t *Table) add(cmds []Command) {
	for _, c := range cmds {
		if _, exists := t.commands[c.Name]; !exists {
			t.order = append(t.order, c.Name)
		}
		t.commands[c.Name] = c
	}
}

// Extend returns a new table holding t's commands followed by cmds
func (t *Table) Extend(cmds ...Command) *Table {
	ext := &Table{
		order:    make([]string, len(t.order), len(t.order)+len(cmds)),
		commands: make(map[string]Command, len(t.commands)+len(cmds)),
	}
	copy(ext.order, t.order)
	for k, v := range t.commands {
		ext.commands[k] = v
	}
	ext.add(cmds)
	return ext
}

// Lookup finds a command by its lower-case keyword
func (t *Table) Lookup(name string) (Command, bool) {
	c, ok := t.commands[name]
	return c, ok
}

// Resolve is Lookup with an ErrUnknownCommand error for a missing keyword
func (t *Table) Resolve(name string) (Command, error) {
	c, ok := t.commands[name]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", model.ErrUnknownCommand, name)
	}
	return c, nil
}

// Commands returns the commands in registration order
func (t *Table) Commands() []Command {
	out := make([]Command, len(t.order))
	for i, name := range t.order {
		out[i] = t.commands[name]
	}
	return out
}

// Len returns the number of commands
func (t *Table) Len() int {
	return len(t.order)
}
