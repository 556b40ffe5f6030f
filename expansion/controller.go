// Package expansion tracks which sections of a page are expanded in the UI.
//
// Each section is Collapsed or Expanded, Collapsed until touched. A page-level
// command (expand all / collapse all) overrides every section for exactly one
// render cycle: it is issued by a request, consumed by the next render and
// cleared when that render ends.
package expansion

// Command is a one-shot page-level expansion command.
type Command int

const (
	None Command = iota
	ExpandAll
	CollapseAll
)

func (c Command) String() string {
	switch c {
	case ExpandAll:
		return "expand-all"
	case CollapseAll:
		return "collapse-all"
	default:
		return "none"
	}
}

// ParseCommand maps a form value to a Command.
func ParseCommand(s string) (Command, bool) {
	switch s {
	case "expand-all":
		return ExpandAll, true
	case "collapse-all":
		return CollapseAll, true
	}
	return None, false
}

// Controller holds the expansion state of one page's sections.
type Controller struct {
	states  map[string]bool
	pending Command
}

func New() *Controller {
	return &Controller{states: map[string]bool{}}
}

// Issue queues a page-level command. The queue holds one command, so issuing
// ExpandAll discards a pending CollapseAll and vice versa.
func (c *Controller) Issue(cmd Command) {
	c.pending = cmd
}

// Pending returns the command the current render cycle will apply.
func (c *Controller) Pending() Command {
	return c.pending
}

// Set records an individual section's state.
func (c *Controller) Set(title string, expanded bool) {
	c.states[title] = expanded
}

// IsExpanded reports whether the section is shown expanded in the current
// cycle. A pending command wins over the section's own state.
func (c *Controller) IsExpanded(title string) bool {
	switch c.pending {
	case ExpandAll:
		return true
	case CollapseAll:
		return false
	}
	return c.states[title]
}

// EndCycle finishes a render cycle: the pending command becomes the stored
// state of every rendered section, then the command is cleared.
func (c *Controller) EndCycle(rendered []string) {
	switch c.pending {
	case ExpandAll:
		for _, title := range rendered {
			c.states[title] = true
		}
	case CollapseAll:
		for _, title := range rendered {
			c.states[title] = false
		}
	}
	c.pending = None
}

// ResetDisplay collapses every section and discards any pending command.
func (c *Controller) ResetDisplay() {
	for title := range c.states {
		c.states[title] = false
	}
	c.pending = None
}
