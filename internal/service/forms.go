package service

import "html/template"

// SubmitLabel is the label of the submit button on both edit forms.
const SubmitLabel = "Update help text"

// TextArea is a multi-line input.
type TextArea struct {
	Name    string
	Title   string
	Default string
	Hint    string
	Rows    int
	Weight  int
}

// TextInput is a single-line input.
type TextInput struct {
	Name    string
	Title   string
	Default string
}

// Checkbox is one option of a CheckboxGroup.
type Checkbox struct {
	Value   string
	Title   string
	Hint    template.HTML
	Checked bool
}

// CheckboxGroup is a named set of checkboxes.
type CheckboxGroup struct {
	Name    string
	Title   string
	Options []Checkbox
}

// Action is a submit button.
type Action struct {
	Label  string
	Weight int
}

// SubmitResult reports what a form submission changed.
type SubmitResult struct {
	// Notices holds one message per saved record, in save order.
	Notices []string
}

// Saved reports how many records were written.
func (r *SubmitResult) Saved() int {
	return len(r.Notices)
}
