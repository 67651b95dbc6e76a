package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/docanno/internal/errors"
)

// annotationLine is the strict grammar of the text after the '@' marker:
//
//	Name [ "(" [ Arg { "," Arg } ] ")" ]
type annotationLine struct {
	Name  string      `parser:"@Text"`
	Open  bool        `parser:"( @'('"`
	Args  []*argument `parser:"  ( @@ ( ',' @@ )* )?"`
	Close bool        `parser:"  @')' )?"`
}

// argument is Key [ "=" Value ] or a keyless "=" Value. The value may
// itself contain '=' so that ValueRemainder comments validate;
// ValueTruncate rejects it afterwards.
type argument struct {
	Key      string `parser:"( @Text"`
	Assign   bool   `parser:"  ( @'='"`
	Value    string `parser:"    ( @Text | @'=' )* )?"`
	EmptyKey bool   `parser:"| @'=' ( Text | '=' )* )"`
}

var (
	lineLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Punct", Pattern: `[(),=]`},
		{Name: "Text", Pattern: `[^(),=]+`},
	})

	lineParser = participle.MustBuild[annotationLine](
		participle.Lexer(lineLexer),
		participle.UseLookahead(2),
	)
)

// validateLine checks one annotation line against the strict grammar
func (p *Parser) validateLine(line string, loc SourceLocation) *errors.SyntaxError {
	parsed, err := lineParser.ParseString(loc.File, line)
	if err != nil {
		return grammarError(line, loc, err)
	}

	for _, arg := range parsed.Args {
		key := trimASCII(arg.Key)
		switch {
		case arg.EmptyKey || (key == "" && arg.Assign):
			return errors.NewSyntaxError("argument has an empty key", line, loc).
				WithHint("write arguments as key=value")
		case key == "":
			return errors.NewSyntaxError("empty argument", line, loc).
				WithHint("remove the extra comma")
		case arg.Assign && p.opts.Values == ValueTruncate && strings.Contains(arg.Value, "="):
			return errors.NewSyntaxError(
				fmt.Sprintf("argument '%s' contains more than one '='", key), line, loc).
				WithHint("only the text up to the second '=' is kept; use the remainder value mode to keep it all")
		}
	}

	return nil
}

func grammarError(line string, loc SourceLocation, err error) *errors.SyntaxError {
	perr, ok := err.(participle.Error)
	if !ok {
		return errors.NewSyntaxError(err.Error(), line, loc)
	}

	pos := perr.Position()
	if pos.Column > 0 && loc.Column > 0 {
		loc.Column += pos.Column - 1
	}
	return errors.NewSyntaxError(perr.Message(), line, loc).
		WithHint("annotations take the form @Name or @Name(key=value, token)")
}
