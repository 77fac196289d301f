package appcast

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// SparkleNamespace is the XML namespace URI qualifying the sparkle:* elements
// and attributes in an appcast feed.
const SparkleNamespace = "http://www.andymatuschak.org/xml-namespaces/sparkle"

const (
	nodeChannel     = "channel"
	nodeItem        = "item"
	nodeRelNotes    = "releaseNotesLink"
	nodeTitle       = "title"
	nodeDescription = "description"
	nodeEnclosure   = "enclosure"
	attrURL         = "url"
	attrVersion     = "version"
	attrShortVer    = "shortVersionString"
)

// Appcast is the update descriptor extracted from one feed document. Fields
// left empty simply were not present in the feed; no defaults are synthesized.
type Appcast struct {
	DownloadURL        string
	Version            string
	ShortVersionString string
	Title              string
	Description        string
	ReleaseNotesURL    string
}

// ParseError reports a malformed appcast document. It wraps the XML
// decoder's own diagnostic and records the input offset where decoding
// stopped.
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("appcast: malformed document at byte %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// parseContext is the per-load state machine: the descriptor under
// construction, the filtering baseline, and one nesting counter per element
// we care about. Counters rather than booleans so duplicated or re-entrant
// tags nest symmetrically; decrements clamp at zero.
type parseContext struct {
	cast *Appcast

	// lastAccepted is the version of the most recently accepted enclosure.
	// Seeded from the caller's previous load, updated on every accept.
	lastAccepted string

	inChannel     int
	inItem        int
	inRelNotes    int
	inTitle       int
	inDescription int
}

func (p *parseContext) startElement(name xml.Name, attrs []xml.Attr) {
	switch {
	case name.Local == nodeChannel:
		p.inChannel++
	case p.inChannel > 0 && name.Local == nodeItem:
		p.inItem++
	case p.inItem > 0:
		switch {
		case name.Space == SparkleNamespace && name.Local == nodeRelNotes:
			p.inRelNotes++
		case name.Local == nodeTitle:
			p.inTitle++
		case name.Local == nodeDescription:
			p.inDescription++
		case name.Local == nodeEnclosure:
			p.enclosure(attrs)
		}
	}
}

// enclosure applies the selection rule: the first enclosure ever seen is
// accepted unconditionally; afterwards only a strictly greater
// sparkle:version displaces the previous pick. A rejected enclosure leaves
// every already-set field untouched.
func (p *parseContext) enclosure(attrs []xml.Attr) {
	accept := p.lastAccepted == ""
	if !accept {
		for _, a := range attrs {
			if a.Name.Space == SparkleNamespace && a.Name.Local == attrVersion {
				if CompareVersions(p.lastAccepted, a.Value) < 0 {
					accept = true
				}
			}
		}
	}
	if !accept {
		return
	}

	// Each attribute copies independently; an absent attribute leaves its
	// target field as it was.
	for _, a := range attrs {
		switch {
		case a.Name.Space == "" && a.Name.Local == attrURL:
			p.cast.DownloadURL = a.Value
		case a.Name.Space == SparkleNamespace && a.Name.Local == attrVersion:
			p.cast.Version = a.Value
			p.lastAccepted = a.Value
		case a.Name.Space == SparkleNamespace && a.Name.Local == attrShortVer:
			p.cast.ShortVersionString = a.Value
		}
	}
}

func (p *parseContext) endElement(name xml.Name) {
	switch {
	case p.inItem > 0 && name.Space == SparkleNamespace && name.Local == nodeRelNotes:
		if p.inRelNotes > 0 {
			p.inRelNotes--
		}
	case p.inItem > 0 && name.Local == nodeTitle:
		if p.inTitle > 0 {
			p.inTitle--
		}
	case p.inItem > 0 && name.Local == nodeDescription:
		if p.inDescription > 0 {
			p.inDescription--
		}
	case p.inChannel > 0 && name.Local == nodeItem:
		if p.inItem > 0 {
			p.inItem--
		}
	case name.Local == nodeChannel:
		if p.inChannel > 0 {
			p.inChannel--
		}
	}
}

// text appends character data verbatim to whichever named element we are
// inside. One logical text run may arrive as several calls; content
// accumulates in call order and is never reset, so repeated same-named
// elements concatenate.
func (p *parseContext) text(data []byte) {
	switch {
	case p.inRelNotes > 0:
		p.cast.ReleaseNotesURL += string(data)
	case p.inTitle > 0:
		p.cast.Title += string(data)
	case p.inDescription > 0:
		p.cast.Description += string(data)
	}
}

// Load parses appcast XML into an update descriptor.
//
// lastKnown is the version of the last enclosure accepted by a previous
// Load, or "" when nothing has been accepted yet. Enclosures are only
// accepted when they improve on it, so the returned descriptor reflects the
// highest-versioned enclosure across this document and whatever history the
// caller threads through. The second return value is the updated baseline
// for the next call; it equals lastKnown when no enclosure was accepted.
//
// A malformed document returns a *ParseError and no descriptor.
func Load(data []byte, lastKnown string) (*Appcast, string, error) {
	cast := &Appcast{}
	ctx := &parseContext{cast: cast, lastAccepted: lastKnown}

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return cast, ctx.lastAccepted, nil
		}
		if err != nil {
			return nil, lastKnown, &ParseError{Offset: dec.InputOffset(), Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			ctx.startElement(t.Name, t.Attr)
		case xml.EndElement:
			ctx.endElement(t.Name)
		case xml.CharData:
			ctx.text(t)
		}
	}
}
