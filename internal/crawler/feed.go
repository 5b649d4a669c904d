// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package crawler

import (
	"context"
	"encoding/json"
	"os"

	"github.com/linkmesh-dev/linkmesh/internal/store"
	lmerr "github.com/linkmesh-dev/linkmesh/pkg/errors"
)

// feedDocument is the on-disk shape of a scraper feed: the external
// page-scraping layer dumps its raw findings here and linkmesh ingests
// them offline.
type feedDocument struct {
	Nodes       map[string]feedNode         `json:"nodes"`
	Collections map[string][]feedCollection `json:"collections"`
}

type feedNode struct {
	Links []string  `json:"links"`
	Meta  *feedMeta `json:"meta"`
}

type feedMeta struct {
	Subscribers int64 `json:"subscribers"`
	Sensitive   bool  `json:"sensitive"`
}

type feedCollection struct {
	Group   string   `json:"group"`
	Members []string `json:"members"`
}

// FeedExtractor implements Extractor from a JSON feed file produced by the
// external scraping collaborator. Nodes absent from the feed extract to an
// empty result, matching an upstream fetch that found nothing.
type FeedExtractor struct {
	doc feedDocument
}

// Compile-time interface check.
var _ Extractor = (*FeedExtractor)(nil)

// LoadFeed parses a scraper feed file.
func LoadFeed(path string) (*FeedExtractor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, lmerr.Wrapf(err, lmerr.CodeCrawlExtractFailure, "reading feed %s", path)
	}

	var doc feedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, lmerr.Wrapf(err, lmerr.CodeCrawlExtractFailure, "parsing feed %s", path)
	}
	return &FeedExtractor{doc: doc}, nil
}

func (f *FeedExtractor) Extract(_ context.Context, name string) (ExtractResult, error) {
	entry, ok := f.doc.Nodes[store.NormalizeName(name)]
	if !ok {
		return ExtractResult{}, nil
	}

	result := ExtractResult{Links: entry.Links}
	if entry.Meta != nil {
		result.Meta = &Meta{
			Subscribers: entry.Meta.Subscribers,
			Sensitive:   entry.Meta.Sensitive,
		}
	}
	return result, nil
}

func (f *FeedExtractor) ListCollections(_ context.Context, owner string) ([]Collection, error) {
	entries, ok := f.doc.Collections[owner]
	if !ok {
		return nil, lmerr.New(lmerr.CodeCrawlExtractFailure,
			"feed has no collections for owner", lmerr.Field("owner", owner))
	}

	out := make([]Collection, 0, len(entries))
	for _, e := range entries {
		out = append(out, Collection{Group: e.Group, Members: e.Members})
	}
	return out, nil
}
