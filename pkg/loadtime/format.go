package loadtime

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Piece is one run of a substituted string. Arg is the 1-based placeholder
// that produced Value, or 0 for literal text.
type Piece struct {
	Value string
	Arg   int
}

// IsArg reports whether the piece came from a placeholder.
func (p Piece) IsArg() bool { return p.Arg > 0 }

// FormatString replaces $1..$9 in template with the matching argument and
// $$ with a literal $. Any other $ is reported and left as written.
func (s *Store) FormatString(template string, args ...any) string {
	var b strings.Builder
	for piece := range s.SplitIntoPieces(template, args...) {
		b.WriteString(piece.Value)
	}
	return b.String()
}

// SplitIntoPieces performs the same substitution as FormatString but yields
// literal runs and substituted arguments as separate pieces, so callers can
// keep substituted values in their own nodes. Literal runs have $$ already
// unescaped. The sequence is lazy and can be ranged over repeatedly.
func (s *Store) SplitIntoPieces(template string, args ...any) iter.Seq[Piece] {
	return func(yield func(Piece) bool) {
		var literal strings.Builder
		flush := func() bool {
			if literal.Len() == 0 {
				return true
			}
			piece := Piece{Value: literal.String()}
			literal.Reset()
			return yield(piece)
		}

		for i := 0; i < len(template); i++ {
			c := template[i]
			if c != '$' {
				literal.WriteByte(c)
				continue
			}
			if i+1 < len(template) {
				next := template[i+1]
				if next == '$' {
					literal.WriteByte('$')
					i++
					continue
				}
				if next >= '1' && next <= '9' {
					if !flush() {
						return
					}
					slot := int(next - '0')
					i++
					if !yield(Piece{Value: s.argument(slot, args), Arg: slot}) {
						return
					}
					continue
				}
			}
			s.report(ErrUnescapedDollar)
			literal.WriteByte('$')
		}
		flush()
	}
}

func (s *Store) argument(slot int, args []any) string {
	if slot > len(args) {
		s.report(&MissingArgumentError{Placeholder: slot, Supplied: len(args)})
		return ""
	}
	return argString(args[slot-1])
}

func argString(arg any) string {
	switch v := arg.(type) {
	case nil:
		return ""
	case string:
		return v
	case Value:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatNumber(v)
	case float32:
		return formatNumber(float64(v))
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
