package category

import "fmt"

// ParseError marks a mapping file whose content could not be understood in
// either supported format. The crawler treats it as fatal.
type ParseError struct {
	Err error
}

func NewParseError(err error) *ParseError {
	return &ParseError{Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse category mapping: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func ErrBadCategoryID(raw string) error {
	return fmt.Errorf("category id %q is not an integer", raw)
}
