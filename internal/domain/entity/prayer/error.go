package prayer

import "fmt"

func ErrNotObject(err error) error {
	return fmt.Errorf("prayer record is not a JSON object: %w", err)
}

func ErrBadTotalCount(raw []byte) error {
	return fmt.Errorf("totalCount %s is not a number", raw)
}
