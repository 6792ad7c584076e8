// Package parser drives the byte-oriented streaming state machine: it
// matches prefix byte sequences against a registered command catalog,
// accumulates payload bytes per the matched command's data type, and emits
// finished command.Instance values in strict byte-arrival order.
package parser

import "github.com/nullterm/escreceipt/internal/command"

// state is the parser's internal FSM state, spec.md §4.2. Idle and Dispatch
// collapse into one Go state here: resolve both recognizes a
// unique/maximal prefix and immediately enters Accumulate for it, since
// nothing observable happens in between.
type state int

const (
	stateIdle state = iota
	stateAccumulate
)

// maxPrefixLen bounds the ambiguity buffer: no registered prefix in this
// catalog exceeds 3 bytes (spec.md §9's "parser ambiguity buffer").
const maxPrefixLen = 3

// Parser is a one-shot, single-document byte stream parser. Create a fresh
// one per document; it holds no state usable across documents.
type Parser struct {
	catalog []*command.Descriptor
	def     *command.Descriptor // the "default" text-absorbing descriptor

	state   state
	buf     []byte // ambiguity buffer while Idle, or prefix+payload while Accumulate
	current *command.Descriptor
	handler command.Handler

	emit func(command.Instance)
}

// New builds a Parser over the given descriptor catalog. def is the
// distinguished "default" descriptor consuming bytes matching no prefix;
// its Prefix must be empty/nil and its DataType must be DataText.
func New(catalog []*command.Descriptor, def *command.Descriptor, emit func(command.Instance)) *Parser {
	return &Parser{catalog: catalog, def: def, emit: emit}
}

// Feed offers the parser one more chunk of input bytes.
func (p *Parser) Feed(data []byte) {
	for _, b := range data {
		p.step(b)
	}
}

// End finalizes any in-flight command at end-of-stream. Per spec.md §4.2,
// partial commands must be finalized best-effort: a still-accumulating
// handler is completed as-is; a still-ambiguous Idle buffer is routed to
// the default handler in one batch.
func (p *Parser) End() {
	switch p.state {
	case stateAccumulate:
		p.completeCurrent()
	case stateIdle:
		if len(p.buf) > 0 {
			buf := p.buf
			p.buf = nil
			p.flushToDefault(buf)
		}
	}
}

func (p *Parser) step(b byte) {
	switch p.state {
	case stateIdle:
		p.stepIdle(b)
	case stateAccumulate:
		p.stepAccumulate(b)
	}
}

func (p *Parser) stepIdle(b byte) {
	p.buf = append(p.buf, b)
	p.resolve()
}

// resolve inspects the current ambiguity buffer and either keeps buffering
// (a longer prefix is still reachable and the buffer hasn't hit the hard
// cap), dispatches the longest descriptor whose prefix is fully contained
// in the buffer, or — if nothing matches at all — starts a default-handler
// run with the buffer's first byte as literal text and replays the rest of
// the buffer through step.
func (p *Parser) resolve() {
	buf := p.buf
	extendable := false
	var best *command.Descriptor

	for _, d := range p.catalog {
		n := len(d.Prefix)
		if n == 0 {
			continue
		}
		lead := n
		if lead > len(buf) {
			lead = len(buf)
		}
		if !bytesEqual(d.Prefix[:lead], buf[:lead]) {
			continue
		}
		if n > len(buf) {
			extendable = true
			continue
		}
		// n <= len(buf): this descriptor's whole prefix is satisfied.
		if best == nil || len(d.Prefix) > len(best.Prefix) {
			best = d
		}
	}

	if extendable && len(buf) < maxPrefixLen {
		return
	}

	if best != nil {
		p.buf = nil
		matched := buf[:len(best.Prefix)]
		leftover := buf[len(best.Prefix):]
		p.dispatch(best, matched)
		for _, rb := range leftover {
			p.step(rb)
		}
		return
	}

	// Nothing matches: buf[0] together with the rest of buf leads nowhere,
	// so buf[0] alone becomes literal default text — but the rest of buf
	// is not itself known to be unmatchable, so it must be replayed rather
	// than discarded along with buf[0]. Replaying through p.step (not a
	// second resolve() on the raw bytes) lets stepAccumulate's DataText
	// case fold each byte into the same default run, or break out to Idle
	// and start fresh the moment a byte could begin a real prefix — e.g.
	// ESC ESC '@' must emit one stray-ESC text byte, then a real Initialize,
	// not three bytes of garbage. Folding the *entire* buffer into text (as
	// a prior version of this did) loses that: it also broke termination,
	// since replaying buf[0] itself as the first of a fresh accumulate run
	// fed it straight back into couldBeginPrefix, which has no memory of
	// having just failed to match it, bouncing back to Idle and
	// reconstructing the identical buffer forever whenever buf[0] is itself
	// a prefix lead (true for every ESC/GS command in this catalog).
	first, rest := buf[0], buf[1:]
	p.buf = nil
	p.dispatch(p.def, nil)
	p.buf = append(p.buf, first)
	for _, rb := range rest {
		p.step(rb)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (p *Parser) dispatch(d *command.Descriptor, prefix []byte) {
	p.current = d
	p.handler = d.NewHandler()
	p.buf = append([]byte(nil), prefix...)
	if d.DataType == command.DataEmpty {
		p.completeCurrent()
		return
	}
	p.state = stateAccumulate
}

func (p *Parser) stepAccumulate(b byte) {
	payload := p.buf[len(p.current.Prefix):]
	switch p.current.DataType {
	case command.DataSingle:
		p.buf = append(p.buf, b)
		if len(payload)+1 >= 1 {
			p.completeCurrent()
		}
	case command.DataDouble:
		p.buf = append(p.buf, b)
		if len(payload)+1 >= 2 {
			p.completeCurrent()
		}
	case command.DataTriple:
		p.buf = append(p.buf, b)
		if len(payload)+1 >= 3 {
			p.completeCurrent()
		}
	case command.DataText:
		// Accept until the next byte could begin a known prefix; that byte
		// is pushed back to Idle.
		if couldBeginPrefix(p.catalog, b) {
			p.completeCurrent()
			p.stepIdle(b)
			return
		}
		p.buf = append(p.buf, b)
	case command.DataCustom, command.DataSubcommand:
		accept, consumed := p.handler.Push(payload, b)
		if accept {
			p.buf = append(p.buf, b)
			return
		}
		if consumed {
			p.buf = append(p.buf, b)
			p.completeCurrent()
			return
		}
		p.completeCurrent()
		p.stepIdle(b)
	default:
		p.completeCurrent()
		p.stepIdle(b)
	}
}

func couldBeginPrefix(catalog []*command.Descriptor, b byte) bool {
	for _, d := range catalog {
		if len(d.Prefix) > 0 && d.Prefix[0] == b {
			return true
		}
	}
	return false
}

func (p *Parser) completeCurrent() {
	prefixLen := len(p.current.Prefix)
	payload := append([]byte(nil), p.buf[prefixLen:]...)
	inst := command.Instance{
		Descriptor: p.current,
		Prefix:     append([]byte(nil), p.current.Prefix...),
		Payload:    payload,
		Handler:    p.handler,
	}
	p.emit(inst)
	p.state = stateIdle
	p.buf = nil
	p.current = nil
	p.handler = nil
}

// flushToDefault emits one default-handler Instance covering the given
// bytes as a single Text-kind span, per spec.md §4.2's Default state.
func (p *Parser) flushToDefault(bytes []byte) {
	if p.def == nil || len(bytes) == 0 {
		return
	}
	h := p.def.NewHandler()
	for _, b := range bytes {
		h.Push(nil, b)
	}
	p.emit(command.Instance{
		Descriptor: p.def,
		Prefix:     nil,
		Payload:    append([]byte(nil), bytes...),
		Handler:    h,
	})
}
