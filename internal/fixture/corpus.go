package fixture

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Corpus is a set of fixture documents loaded from a directory tree.
// Document ids are unique across the corpus; a duplicate is a load error.
type Corpus struct {
	byID  map[string]*Document
	order []string
}

// Filter selects documents from a corpus. Zero value selects everything.
type Filter struct {
	// IDGlob filters by id using filepath.Match semantics.
	IDGlob string

	// Tags requires every listed tag to be present with the given value.
	Tags map[string]string

	// Plugin requires the named integration to appear in the document's
	// plugin list.
	Plugin string
}

// LoadCorpus loads every .yaml/.yml file under dir as a fixture document.
func LoadCorpus(dir string) (*Corpus, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("fixtures directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	c := &Corpus{byID: make(map[string]*Document)}

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		doc, err := Load(path)
		if err != nil {
			return err
		}
		if prev, dup := c.byID[doc.ID]; dup {
			return fmt.Errorf("duplicate fixture id %q: %s and %s", doc.ID, prev.Path, path)
		}
		c.byID[doc.ID] = doc
		c.order = append(c.order, doc.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Collated ordering keeps listings stable regardless of walk order.
	collate.New(language.Und, collate.Numeric).SortStrings(c.order)

	return c, nil
}

// Len returns the number of documents in the corpus.
func (c *Corpus) Len() int {
	return len(c.byID)
}

// Get returns the document with the given id, or nil.
func (c *Corpus) Get(id string) *Document {
	return c.byID[id]
}

// All returns every document in collated id order.
func (c *Corpus) All() []*Document {
	docs := make([]*Document, 0, len(c.order))
	for _, id := range c.order {
		docs = append(docs, c.byID[id])
	}
	return docs
}

// Select returns the documents matching the filter, in collated id order.
func (c *Corpus) Select(f Filter) ([]*Document, error) {
	var docs []*Document
	for _, id := range c.order {
		doc := c.byID[id]

		if f.IDGlob != "" {
			matched, err := filepath.Match(f.IDGlob, doc.ID)
			if err != nil {
				return nil, fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				continue
			}
		}

		if !matchTags(doc.Tag, f.Tags) {
			continue
		}

		if f.Plugin != "" && !hasPlugin(doc.Plugin, f.Plugin) {
			continue
		}

		docs = append(docs, doc)
	}
	return docs, nil
}

func matchTags(have map[string]string, want map[string]string) bool {
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}
	return true
}

func hasPlugin(plugins []string, name string) bool {
	for _, p := range plugins {
		if p == name {
			return true
		}
	}
	return false
}
