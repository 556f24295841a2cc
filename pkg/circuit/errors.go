package circuit

import "fmt"

// InputValidationError covers every circuit-construction defect spec §7
// assigns to the InputValidation taxonomy: missing ground, dangling node,
// duplicate component name, non-positive R, disconnected subgraph, unknown
// component kind, malformed waveform.
type InputValidationError struct {
	Reason    string
	Component string
	Node      string
}

func (e *InputValidationError) Error() string {
	switch {
	case e.Component != "":
		return fmt.Sprintf("input validation: %s (component %q)", e.Reason, e.Component)
	case e.Node != "":
		return fmt.Sprintf("input validation: %s (node %q)", e.Reason, e.Node)
	default:
		return fmt.Sprintf("input validation: %s", e.Reason)
	}
}

func newInputError(reason string) error {
	return &InputValidationError{Reason: reason}
}

func newInputErrorComponent(reason, component string) error {
	return &InputValidationError{Reason: reason, Component: component}
}

func newInputErrorNode(reason, node string) error {
	return &InputValidationError{Reason: reason, Node: node}
}
