package template

import (
	"errors"
	"fmt"
)

var (
	ErrUnbalancedIf    = errors.New("unbalanced {{#if}} / {{/if}}")
	ErrUnbalancedEach  = errors.New("unbalanced {{#each}} / {{/each}}")
	ErrUnterminatedTag = errors.New("unterminated {{")
	ErrEmptyBlock      = errors.New("block tag without an expression")
)

// Validate reports structural problems in src. The result is advisory:
// Render accepts any input and keeps malformed tags as text.
func Validate(src string) []error {
	tokens, unterminated, empty := lex(src)

	var ifOpen, ifClose, eachOpen, eachClose int
	for _, b := range empty {
		if b.keyword == "#if" {
			ifOpen++
		} else {
			eachOpen++
		}
	}
	for _, tok := range tokens {
		switch tok.kind {
		case tokIf:
			ifOpen++
		case tokEndIf:
			ifClose++
		case tokEach:
			eachOpen++
		case tokEndEach:
			eachClose++
		}
	}

	var errs []error
	if ifOpen != ifClose {
		errs = append(errs, fmt.Errorf("%w: %d opening, %d closing", ErrUnbalancedIf, ifOpen, ifClose))
	}
	if eachOpen != eachClose {
		errs = append(errs, fmt.Errorf("%w: %d opening, %d closing", ErrUnbalancedEach, eachOpen, eachClose))
	}
	for _, b := range empty {
		errs = append(errs, fmt.Errorf("%w: {{%s}} at offset %d", ErrEmptyBlock, b.keyword, b.pos))
	}
	for _, pos := range unterminated {
		errs = append(errs, fmt.Errorf("%w at offset %d", ErrUnterminatedTag, pos))
	}
	return errs
}
