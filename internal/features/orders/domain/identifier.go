package domain

import "strings"

// IdentifierKind discriminates how a customer identified themselves.
type IdentifierKind string

const (
	// IdentifierCPF means the identifier is an 11-digit Brazilian tax id.
	IdentifierCPF IdentifierKind = "cpf"
	// IdentifierEmail means the identifier is an e-mail address.
	IdentifierEmail IdentifierKind = "email"
)

// Identifier is a classified customer identifier ready for a repository lookup.
type Identifier struct {
	// Kind tells whether Value is a CPF or an e-mail.
	Kind IdentifierKind
	// Value is the normalized identifier: digits only for CPF,
	// trimmed and lower-cased for e-mail.
	Value string
}

// ClassifyIdentifier normalizes a raw identifier. If stripping every
// non-digit character leaves exactly 11 digits it is a CPF; anything
// else is treated as an e-mail.
func ClassifyIdentifier(raw string) Identifier {
	trimmed := strings.TrimSpace(raw)

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	if digits.Len() == 11 {
		return Identifier{Kind: IdentifierCPF, Value: digits.String()}
	}

	return Identifier{Kind: IdentifierEmail, Value: strings.ToLower(trimmed)}
}
