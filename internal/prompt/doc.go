// Package prompt renders the songwriting prompt sent to the lyrics model.
//
// # Overview
//
// [Build] fills a fixed template with the four values of an
// [employee.Info]: name, department, role and years at the company. The
// output is byte-identical for identical input, so it can be asserted in
// tests and diffed in logs. Values are inserted verbatim; nothing is escaped.
//
// [Messages] wraps the rendered prompt in the two-message conversation every
// provider receives: the [SystemInstruction] persona followed by the prompt
// as the user turn.
//
// # Basic usage
//
//	info := employee.Extract("Jane Doe", "4 years in sales")
//	messages, err := prompt.Messages(info)
//	if err != nil {
//	    return err // prompt.ErrMissingField
//	}
//	resp, err := provider.Chat(ctx, messages, chatOpts)
package prompt
