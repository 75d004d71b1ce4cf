package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lgodoyplay/cerco-sub000/model"
)

// documentExt is the file extension of report documents
const documentExt = ".yaml"

// DirProvider reads <Dir>/<caseID>.yaml documents. Image paths inside a
// document are resolved relative to Dir.
type DirProvider struct {
	Dir string
}

// NewDirProvider returns a provider reading documents from dir.
func NewDirProvider(dir string) *DirProvider {
	return &DirProvider{Dir: dir}
}

// Report loads the document for caseID.
func (p *DirProvider) Report(ctx context.Context, caseID string) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validCaseID(caseID) {
		return nil, fmt.Errorf("%w: case %q", ErrNotFound, caseID)
	}

	path := filepath.Join(p.Dir, caseID+documentExt)
	f, err := os.Open(path) //nolint:gosec // caseID is checked to be a plain file name
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: case %q", ErrNotFound, caseID)
		}
		return nil, err
	}
	defer f.Close()

	r, err := Decode(f, WithBaseDir(p.Dir))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if r.CaseID == "" {
		r.CaseID = caseID
	}
	return r, nil
}

// CaseIDs lists the documents in Dir, sorted.
func (p *DirProvider) CaseIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, documentExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, documentExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// validCaseID rejects IDs that would escape Dir.
func validCaseID(id string) bool {
	return id != "" && id != "." && id != ".." &&
		!strings.ContainsAny(id, `/\`) && filepath.Base(id) == id
}
