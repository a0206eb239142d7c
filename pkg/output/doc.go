// Package output renders CLI results.
//
// Human formats (terminal, text) draw datasets as a lipgloss table; the
// terminal format adds colour when the writer is a colour-capable tty.
// Machine formats (json, yaml) encode the same values for scripts.
package output
