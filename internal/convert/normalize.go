package convert

import "golang.org/x/text/unicode/norm"

// NormalizeStr applies Unicode NFC normalization to a host string before it
// crosses into the runtime as a Str object, the way the teacher's
// internal/lexer.Normalize canonicalizes source text at the input boundary
// before tokenizing it. Two visually-identical strings built from different
// combining-character sequences compare equal once both have passed
// through here.
func NormalizeStr(s string) string {
	return norm.NFC.String(s)
}
