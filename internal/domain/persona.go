package domain

import (
	"fmt"
	"strings"
)

// PersonaDNA is the user-configured writing identity injected into the
// humanize prompt. It carries no server-side validation; the text is
// embedded verbatim.
type PersonaDNA struct {
	Name             string   `json:"name" yaml:"name"`
	Role             string   `json:"role" yaml:"role"`
	Traits           []string `json:"traits" yaml:"traits"`
	PortfolioContext string   `json:"portfolioContext" yaml:"portfolio_context"`
}

// Describe renders the persona as the prose block the humanize prompt embeds.
func (p PersonaDNA) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Role: %s\n", p.Role)
	if len(p.Traits) > 0 {
		fmt.Fprintf(&b, "Traits: %s\n", strings.Join(p.Traits, ", "))
	}
	if p.PortfolioContext != "" {
		fmt.Fprintf(&b, "Context: %s\n", p.PortfolioContext)
	}
	return strings.TrimRight(b.String(), "\n")
}

// IsZero reports whether the persona is entirely unset.
func (p PersonaDNA) IsZero() bool {
	return p.Name == "" && p.Role == "" && len(p.Traits) == 0 && p.PortfolioContext == ""
}
