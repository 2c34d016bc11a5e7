// payloaddb/push.go
package payloaddb

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PushResult reports the ids PushPayload ended up with and which entries it had to create.
type PushResult struct {
	TagID             int64
	DomainID          int64
	DomainListID      int64
	PayloadID         int64
	TagCreated        bool
	DomainCreated     bool
	DomainListCreated bool
	PayloadCreated    bool
}

// PushPayload registers payloadURL for domain in tag, valid from start. Existing entries are reused:
// the last tag and domain with a matching name, the last domain list of that tag and domain (only when
// both already existed) and the last payload with the same URL in that list. Anything missing is created.
func (c *Client) PushPayload(ctx context.Context, tag, domain, payloadURL string, start int64) (PushResult, error) {
	var tags, domains, domainLists, payloads []Entry

	g, groupCtx := errgroup.WithContext(ctx)
	fetch := func(component string, out *[]Entry) {
		g.Go(func() error {
			entries, err := c.FetchEntries(groupCtx, component, nil)
			if err != nil {
				return fmt.Errorf("list %s: %w", component, err)
			}
			*out = entries
			return nil
		})
	}
	fetch(ComponentTags, &tags)
	fetch(ComponentDomains, &domains)
	fetch(ComponentDomainLists, &domainLists)
	fetch(ComponentPayloads, &payloads)

	if err := g.Wait(); err != nil {
		return PushResult{}, err
	}

	var result PushResult
	var err error

	if existing, ok := lastMatch(tags, func(e Entry) bool { return e.Name == tag }); ok {
		result.TagID = existing.ID
	} else {
		if result.TagID, err = c.CreateTag(ctx, tag); err != nil {
			return result, fmt.Errorf("create tag %s: %w", tag, err)
		}
		result.TagCreated = true
	}

	if existing, ok := lastMatch(domains, func(e Entry) bool { return e.Name == domain }); ok {
		result.DomainID = existing.ID
	} else {
		if result.DomainID, err = c.CreateDomain(ctx, domain); err != nil {
			return result, fmt.Errorf("create domain %s: %w", domain, err)
		}
		result.DomainCreated = true
	}

	existingList, listFound := lastMatch(domainLists, func(e Entry) bool {
		return matchesID(e.GlobalTag, result.TagID) && matchesID(e.PayloadType, result.DomainID)
	})
	if !result.TagCreated && !result.DomainCreated && listFound {
		result.DomainListID = existingList.ID
	} else {
		if result.DomainListID, err = c.CreateDomainList(ctx, result.TagID, result.DomainID); err != nil {
			return result, fmt.Errorf("create domain list %s_%s: %w", tag, domain, err)
		}
		result.DomainListCreated = true
	}

	if existing, ok := lastMatch(payloads, func(e Entry) bool {
		return e.PayloadURL == payloadURL && matchesID(e.PayloadList, result.DomainListID)
	}); ok && !result.DomainListCreated {
		result.PayloadID = existing.ID
	} else {
		if result.PayloadID, err = c.CreatePayload(ctx, payloadURL, result.DomainListID, start); err != nil {
			return result, fmt.Errorf("create payload %s: %w", payloadURL, err)
		}
		result.PayloadCreated = true
	}

	c.log.Info("Payload pushed",
		zap.String("tag", tag),
		zap.String("domain", domain),
		zap.String("payload", payloadURL),
		zap.Int64("start", start),
		zap.Int64("payload_id", result.PayloadID),
		zap.Bool("created", result.PayloadCreated),
	)
	return result, nil
}

// lastMatch returns the last entry satisfying match.
func lastMatch(entries []Entry, match func(Entry) bool) (Entry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if match(entries[i]) {
			return entries[i], true
		}
	}
	return Entry{}, false
}
