package jsonpath

import "fmt"

// ParseError reports a malformed JSONPath expression, with the line and
// column the parser had reached when it gave up.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jsonpath: %s (line %d, column %d)", e.Message, e.Line, e.Column)
}
