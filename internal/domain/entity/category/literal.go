package category

import (
	"fmt"
	"strconv"
)

// parseDictLiteral accepts the subset of Python dict syntax that shows up in
// hand-edited mapping files: single or double quoted strings, bare integer
// keys, an optional trailing comma.
func parseDictLiteral(data []byte) (Mapping, error) {
	p := &literalParser{input: string(data)}
	return p.parse()
}

type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) parse() (Mapping, error) {
	p.skipSpace()
	if !p.consume('{') {
		return nil, p.errorf("expected '{'")
	}

	builder := newMappingBuilder()
	for {
		p.skipSpace()
		if p.consume('}') {
			break
		}

		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume(':') {
			return nil, p.errorf("expected ':' after key %q", key)
		}
		p.skipSpace()
		title, err := p.parseString()
		if err != nil {
			return nil, err
		}
		builder.add(key, title)

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume('}') {
			break
		}
		return nil, p.errorf("expected ',' or '}'")
	}

	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, p.errorf("unexpected trailing data")
	}
	return builder.entries, nil
}

// parseKey reads either a quoted string or a bare integer key.
func (p *literalParser) parseKey() (string, error) {
	if c, ok := p.peek(); ok && (c == '\'' || c == '"') {
		return p.parseString()
	}

	start := p.pos
	for {
		c, ok := p.peek()
		if !ok || !(c == '-' || c == '+' || isDigit(c)) {
			break
		}
		p.pos++
	}
	key := p.input[start:p.pos]
	if _, err := strconv.ParseInt(key, 10, 64); err != nil {
		return "", p.errorf("invalid key %q: keys must be integers or quoted strings", key)
	}
	return key, nil
}

func (p *literalParser) parseString() (string, error) {
	quote, ok := p.peek()
	if !ok || (quote != '\'' && quote != '"') {
		return "", p.errorf("expected a quoted string")
	}
	p.pos++

	var out []byte
	for {
		c, ok := p.peek()
		if !ok {
			return "", p.errorf("unterminated string")
		}
		p.pos++

		switch c {
		case quote:
			return string(out), nil
		case '\\':
			esc, ok := p.peek()
			if !ok {
				return "", p.errorf("unterminated escape")
			}
			p.pos++
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\', '\'', '"':
				out = append(out, esc)
			case 'u':
				if p.pos+4 > len(p.input) {
					return "", p.errorf("truncated \\u escape")
				}
				code, err := strconv.ParseUint(p.input[p.pos:p.pos+4], 16, 32)
				if err != nil {
					return "", p.errorf("invalid \\u escape")
				}
				p.pos += 4
				out = append(out, string(rune(code))...)
			default:
				// Python keeps unrecognized escapes verbatim.
				out = append(out, '\\', esc)
			}
		default:
			out = append(out, c)
		}
	}
}

func (p *literalParser) peek() (byte, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *literalParser) consume(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) errorf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("category mapping literal at offset %d: %s", p.pos, msg)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
