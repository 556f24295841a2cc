// Package netlist is a line-oriented parser for the text netlist grammar in
// spec.md §6: comments, component lines, unit suffixes, an optional PULSE
// token on V/I sources, and `.op`/`.tran`/`.dc`/`.param`/`.end` directives.
// It is grounded on edp1096-toy-spice/pkg/netlist/parser.go's tokenizing
// approach (bufio.Scanner line loop, regexp-assisted value parsing,
// strings.Fields tokenization) with continuation-line handling dropped,
// since spec.md's grammar has none.
package netlist

import (
	"bufio"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/icmhg/spicesim/pkg/circuit"
	"github.com/icmhg/spicesim/pkg/waveform"
)

// TranDirective is a parsed `.tran <t_step> <t_stop>` line.
type TranDirective struct {
	TStep float64
	TStop float64
}

// DCDirective is a parsed `.dc <source> <start> <stop> <step>` line.
type DCDirective struct {
	Source string
	Start  float64
	Stop   float64
	Step   float64
}

// Directives holds the analysis requests a netlist's directive lines asked
// for, plus any `.param` assignments (parsed but not substituted into
// component values — parameter substitution is not in spec.md's grammar).
type Directives struct {
	Op     bool
	Tran   *TranDirective
	DC     *DCDirective
	Params map[string]float64
}

// ParseError wraps a line number and the underlying cause.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("netlist: line %d: %s", e.Line, e.Reason)
}

// Parse reads a full netlist and returns the circuit it describes plus its
// directive lines. It does not call circuit.Validate — that is the caller's
// responsibility once it knows which analysis directive applies.
func Parse(input string) (*circuit.Circuit, *Directives, error) {
	circ := circuit.New("")
	dirs := &Directives{Params: make(map[string]float64)}

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	titleSet := false

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "*") {
			if !titleSet {
				circ.Title = strings.TrimSpace(strings.TrimPrefix(line, "*"))
				titleSet = true
			}
			continue
		}
		titleSet = true

		if strings.EqualFold(line, ".end") {
			break
		}
		if strings.HasPrefix(line, ".") {
			if err := parseDirective(dirs, line, lineNo); err != nil {
				return nil, nil, err
			}
			continue
		}

		if err := parseComponentLine(circ, line, lineNo); err != nil {
			return nil, nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("netlist: scanning input: %w", err)
	}

	return circ, dirs, nil
}

func parseDirective(dirs *Directives, line string, lineNo int) error {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ".op":
		dirs.Op = true

	case ".tran":
		if len(fields) < 3 {
			return &ParseError{lineNo, "'.tran' needs t_step and t_stop"}
		}
		step, err := ParseValue(fields[1])
		if err != nil {
			return &ParseError{lineNo, fmt.Sprintf("invalid t_step: %v", err)}
		}
		stop, err := ParseValue(fields[2])
		if err != nil {
			return &ParseError{lineNo, fmt.Sprintf("invalid t_stop: %v", err)}
		}
		dirs.Tran = &TranDirective{TStep: step, TStop: stop}

	case ".dc":
		if len(fields) < 5 {
			return &ParseError{lineNo, "'.dc' needs source, start, stop and step"}
		}
		start, err := ParseValue(fields[2])
		if err != nil {
			return &ParseError{lineNo, fmt.Sprintf("invalid start: %v", err)}
		}
		stop, err := ParseValue(fields[3])
		if err != nil {
			return &ParseError{lineNo, fmt.Sprintf("invalid stop: %v", err)}
		}
		step, err := ParseValue(fields[4])
		if err != nil {
			return &ParseError{lineNo, fmt.Sprintf("invalid step: %v", err)}
		}
		dirs.DC = &DCDirective{Source: fields[1], Start: start, Stop: stop, Step: step}

	case ".param":
		for _, tok := range fields[1:] {
			name, val, err := parseParamAssignment(tok)
			if err != nil {
				return &ParseError{lineNo, err.Error()}
			}
			dirs.Params[name] = val
		}

	default:
		return &ParseError{lineNo, fmt.Sprintf("unsupported directive %q", fields[0])}
	}
	return nil
}

func parseParamAssignment(tok string) (string, float64, error) {
	parts := strings.SplitN(tok, "=", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("malformed .param assignment %q", tok)
	}
	val, err := ParseValue(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid .param value in %q: %w", tok, err)
	}
	return parts[0], val, nil
}

// parseComponentLine handles `<name> <node+> <node-> [DC] <value>[unit]
// [PULSE(...)]`.
func parseComponentLine(circ *circuit.Circuit, line string, lineNo int) error {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return &ParseError{lineNo, fmt.Sprintf("malformed component line %q", line)}
	}

	name := fields[0]
	kind, ok := circuit.KindOf(name)
	if !ok {
		return &ParseError{lineNo, fmt.Sprintf("unsupported component kind in %q", name)}
	}

	nodePos, nodeNeg := fields[1], fields[2]
	rest := fields[3:]

	if len(rest) > 0 && strings.EqualFold(rest[0], "DC") {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return &ParseError{lineNo, fmt.Sprintf("missing value for component %q", name)}
	}

	value, err := ParseValue(rest[0])
	if err != nil {
		return &ParseError{lineNo, fmt.Sprintf("invalid value for component %q: %v", name, err)}
	}
	rest = rest[1:]

	var pulse *waveform.Pulse
	if len(rest) > 0 {
		pulse, err = parsePulseToken(strings.Join(rest, " "))
		if err != nil {
			return fmt.Errorf("netlist: line %d: %w", lineNo, &circuit.InputValidationError{Reason: "malformed waveform: " + err.Error(), Component: name})
		}
	}

	comp := circuit.Component{
		Name:     name,
		Kind:     kind,
		NodePos:  nodePos,
		NodeNeg:  nodeNeg,
		Value:    value,
		Waveform: pulse,
	}
	if err := circ.AddComponent(comp); err != nil {
		return fmt.Errorf("netlist: line %d: %w", lineNo, err)
	}
	return nil
}

var pulseRE = regexp.MustCompile(`(?i)^PULSE\s*\(\s*(.*)\s*\)$`)

// parsePulseToken parses a trailing `PULSE(v1 v2 td tr tf pw per)` token
// (spec §6), tolerant of the parenthesized list being joined across several
// whitespace-separated fields.
func parsePulseToken(token string) (*waveform.Pulse, error) {
	token = strings.TrimSpace(token)
	m := pulseRE.FindStringSubmatch(token)
	if m == nil {
		return nil, fmt.Errorf("expected PULSE(v1 v2 td tr tf pw per), got %q", token)
	}
	parts := strings.Fields(m[1])
	if len(parts) != 7 {
		return nil, fmt.Errorf("PULSE requires 7 parameters, got %d", len(parts))
	}

	vals := make([]float64, 7)
	for i, p := range parts {
		v, err := ParseValue(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PULSE parameter %q: %w", p, err)
		}
		vals[i] = v
	}

	return &waveform.Pulse{
		V1:     vals[0],
		V2:     vals[1],
		Delay:  vals[2],
		Rise:   vals[3],
		Fall:   vals[4],
		Width:  vals[5],
		Period: vals[6],
	}, nil
}

var unitSuffixes = map[string]float64{
	"meg": 1e6,
	"f":   1e-15,
	"p":   1e-12,
	"n":   1e-9,
	"u":   1e-6,
	"μ":   1e-6,
	"m":   1e-3,
	"k":   1e3,
}

var valueRE = regexp.MustCompile(`^([+-]?\d*\.?\d+(?:[eE][+-]?\d+)?)(\S*)$`)

// ParseValue parses a numeric literal with an optional case-insensitive
// unit suffix (spec §6: f/p/n/u/μ/m/k/meg) and an optional trailing alpha
// tag (V, A, Ω, Hz, ...), which is ignored.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	m := valueRE.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}

	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, err
	}

	suffix := m[2]
	if suffix == "" {
		return num, nil
	}

	// "meg" is the only multi-letter unit; everything else is matched by its
	// first rune, and any further letters are the ignored alpha tag.
	lower := strings.ToLower(suffix)
	if strings.HasPrefix(lower, "meg") {
		return scaleDecimal(m[1], unitSuffixes["meg"])
	}
	first := string([]rune(lower)[0])
	if mult, ok := unitSuffixes[first]; ok {
		return scaleDecimal(m[1], mult)
	}
	// No recognized unit prefix: the whole suffix is an ignored alpha tag
	// (e.g. "V", "A", "Hz").
	return num, nil
}

// scaleDecimal applies the power-of-ten multiplier mult to the decimal
// literal num by shifting its exponent and parsing once, so "10u" yields the
// float64 nearest to 10e-6 rather than the rounded product 10 * 1e-6.
func scaleDecimal(num string, mult float64) (float64, error) {
	shift := int(math.Round(math.Log10(mult)))
	mant, exp := num, 0
	if i := strings.IndexAny(num, "eE"); i >= 0 {
		mant = num[:i]
		var err error
		if exp, err = strconv.Atoi(num[i+1:]); err != nil {
			return 0, err
		}
	}
	return strconv.ParseFloat(fmt.Sprintf("%se%d", mant, exp+shift), 64)
}
