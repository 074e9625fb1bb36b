// Package selection tracks the single highlighted conversation row.
package selection

// Handle identifies a row in one rendering of the list. Epoch is the view
// generation the row belongs to; rebuilding the list starts a new epoch.
type Handle struct {
	ConversationID string
	Epoch          uint64
}

// View is the list the controller highlights rows in.
type View interface {
	// Attached reports whether h still refers to a row of the current view.
	Attached(h Handle) bool
	// Highlight sets or removes the highlight on the row behind h.
	Highlight(h Handle, on bool)
}

// Controller keeps at most one row highlighted.
type Controller struct {
	view    View
	current *Handle
}

// New creates a controller for view.
func New(view View) *Controller {
	return &Controller{view: view}
}

// Select moves the highlight to h.
func (c *Controller) Select(h Handle) {
	c.unhighlight()
	c.view.Highlight(h, true)
	c.current = &h
}

// Clear removes the highlight but keeps remembering the handle, so a later
// Select still has something to unhighlight.
func (c *Controller) Clear() {
	c.unhighlight()
}

// Invalidate forgets the remembered handle. Call it whenever the view is
// rebuilt, since handles into the old view no longer refer to anything.
func (c *Controller) Invalidate() {
	c.current = nil
}

// Current returns the remembered handle.
func (c *Controller) Current() (Handle, bool) {
	if c.current == nil {
		return Handle{}, false
	}
	return *c.current, true
}

func (c *Controller) unhighlight() {
	if c.current != nil && c.view.Attached(*c.current) {
		c.view.Highlight(*c.current, false)
	}
}
