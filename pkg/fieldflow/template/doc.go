/*
Package template substitutes collected field values into agent text.

Agent definitions reference fields in greetings, questions, and
completion messages with {field} placeholders:

	msg := template.Expand("Thanks {full_name}, we'll email {email}.", collected)

The ${field} form is also accepted for texts that need a literal brace
next to a placeholder. A bare dollar sign is never treated as a
placeholder, so prices and amounts pass through untouched.

Missing fields keep their placeholder by default, which means a typo in
an agent definition still yields a sendable message. Use
WithMissingAction to get empty substitution or a hard error instead:

	exp := template.NewExpander(template.WithMissingAction(template.MissingError))
	_, err := exp.Expand("Hi {nmae}", collected)
	// err: undefined variable: nmae
*/
package template
