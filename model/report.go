package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// documentNamespace scopes the name-based UUIDs returned by DocumentID.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:cerco:report"))

// Report is the already-resolved description of a case report.
// It is built once by a data provider and treated as read-only afterwards.
type Report struct {
	Title       string
	Subtitle    string
	CaseID      string
	GeneratedAt time.Time

	// Signing authority
	AuthorityName string
	AuthorityRole string
	AuthorityID   string

	Sections []Section
}

// Section is a headed group of blocks. Order is rendering order.
type Section struct {
	Heading string
	Blocks  []Block
}

// BlockCount returns the total number of blocks across all sections
func (r *Report) BlockCount() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Blocks)
	}
	return n
}

// HasSignature reports whether any section already carries a SignatureBlock
func (r *Report) HasSignature() bool {
	for _, s := range r.Sections {
		for _, b := range s.Blocks {
			if _, ok := b.(*SignatureBlock); ok {
				return true
			}
		}
	}
	return false
}

// DocumentID returns a stable identifier for the document generated from r.
// The same case and generation time always yield the same ID.
func DocumentID(r *Report) string {
	name := strings.TrimSpace(r.CaseID) + "|" + r.GeneratedAt.UTC().Format(time.RFC3339Nano)
	return uuid.NewSHA1(documentNamespace, []byte(name)).String()
}
