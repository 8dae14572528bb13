package events

import "fmt"

// TransportError reports a failed request against an event source.
// Status is the HTTP status code when the source is the REST API, 0 otherwise.
type TransportError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Body != "":
		return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.Status, e.Body)
	case e.Status != 0:
		return fmt.Sprintf("%s failed with status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + " failed"
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// ConfigurationError reports a required bucket type that is missing or
// ambiguous.
type ConfigurationError struct {
	Type  string
	Count int
}

func (e *ConfigurationError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("required bucket for %s not found", e.Type)
	}
	return fmt.Sprintf("found %d %s buckets, expected exactly one", e.Count, e.Type)
}
