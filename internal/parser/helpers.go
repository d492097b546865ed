package parser

import (
	"fmt"

	"github.com/cwbudde/ablc/internal/token"
)

func sprintf(format string, args ...any) string { return fmt.Sprintf(format, args...) }

func describeTok(t token.Token) string {
	if t.Type == token.EOF {
		return "end of input"
	}
	if t.Literal != "" {
		return fmt.Sprintf("%q", t.Literal)
	}
	return t.Type.String()
}
