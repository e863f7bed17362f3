package engine

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/olehkaliuzhnyi/xch-keygen/pkg/models"
)

// Printer renders a Report as the tool's console output.
type Printer struct {
	label   func(a ...interface{}) string
	value   func(a ...interface{}) string
	ok      func(a ...interface{}) string
	failure func(a ...interface{}) string
}

// NewPrinter returns a Printer. With noColor set no escape codes are
// written regardless of the terminal.
func NewPrinter(noColor bool) *Printer {
	sprint := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if noColor {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &Printer{
		label:   sprint(color.FgCyan),
		value:   sprint(color.FgWhite, color.Bold),
		ok:      sprint(color.FgGreen),
		failure: sprint(color.FgRed),
	}
}

// Print writes the key summary, export outcomes, hardened addresses and
// unhardened addresses, in that order.
func (p *Printer) Print(w io.Writer, r *Report) error {
	pw := &errWriter{w: w}

	pw.println()
	p.field(pw, "Fingerprint", strconv.FormatUint(uint64(r.Keys.Fingerprint), 10))
	if r.Keys.Mnemonic != "" {
		p.field(pw, "Mnemonic", r.Keys.Mnemonic)
	}
	p.field(pw, "Master Public Key", r.Keys.MasterPublicKey)
	if r.Keys.FarmerPublicKey != "" {
		p.field(pw, "Farmer Public Key", r.Keys.FarmerPublicKey)
	}
	if r.Keys.PoolPublicKey != "" {
		p.field(pw, "Pool Public Key", r.Keys.PoolPublicKey)
	}
	p.field(pw, "Wallet Observer Key", r.Keys.ObserverKey)
	pw.println()

	if len(r.Exports) > 0 {
		for _, o := range r.Exports {
			pw.println(p.label("Export "+o.Backend+":"), p.outcome(o))
		}
		pw.println()
	}

	for _, a := range r.Hardened {
		p.address(pw, "Hardened Address", a)
	}
	for _, a := range r.Unhardened {
		p.address(pw, "Address", a)
	}

	return pw.err
}

func (p *Printer) field(pw *errWriter, name, value string) {
	pw.println(p.label(name+":"), p.value(value))
}

func (p *Printer) address(pw *errWriter, name string, a models.DerivedAddress) {
	pw.println(p.label(fmt.Sprintf("%s %d:", name, a.Index)), a.Address)
}

func (p *Printer) outcome(o models.ExportOutcome) string {
	if o.Succeeded() {
		msg := "imported"
		if o.Fingerprint != nil {
			msg += " as fingerprint " + strconv.FormatUint(uint64(*o.Fingerprint), 10)
		}
		return p.ok(msg)
	}
	step := strings.ReplaceAll(string(o.FailedIn), "_", " ")
	return p.failure(fmt.Sprintf("failed while %s: %s", step, o.Error))
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) println(a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, a...)
}
