// Package providers holds one parser per supported notification source.
// Each parser recognizes its provider's events and decomposes the free-text
// body into a canonical transaction through an ordered chain of pattern
// extractions.
package providers

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"bankrelay-server/src/models"
)

// ErrNotTransaction marks an event from a recognized provider whose body
// does not match any transaction grammar. Such events are dropped silently:
// not every notification from a banking app is a balance change.
var ErrNotTransaction = errors.New("not a transaction notification")

type Parser interface {
	Provider() models.Provider
	// CanHandle matches on the event's source identity plus a structural
	// marker such as the notification title.
	CanHandle(event models.NotificationEvent) bool
	// Parse extracts a canonical transaction, or ErrNotTransaction.
	Parse(event models.NotificationEvent) (models.Transaction, error)
}

// Registry routes an event to the first parser that recognizes it.
type Registry struct {
	parsers []Parser
}

func NewRegistry() *Registry {
	return &Registry{parsers: []Parser{
		NewCloverParser(),
		NewMeridianParser(),
		NewZenPayParser(),
	}}
}

// Route returns the parser claiming the event, if any.
func (r *Registry) Route(event models.NotificationEvent) (Parser, bool) {
	for _, p := range r.parsers {
		if p.CanHandle(event) {
			return p, true
		}
	}
	return nil, false
}

// normalizeAmount strips a currency token and group separators from a
// formatted amount and parses the remainder as a non-negative integer in
// the smallest currency unit.
func normalizeAmount(raw, currency string) (int64, bool) {
	cleaned := strings.NewReplacer(
		currency, "",
		",", "",
		".", "",
		"+", "",
		"-", "",
		" ", "",
	).Replace(raw)
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// synthesizeID builds a local transaction id for providers that do not
// embed their own reference: event timestamp plus a content hash. Rapid
// duplicate notifications can collide; response-code patching uses
// first-match scan, so a collision misattributes the update.
func synthesizeID(postedAt int64, content string) string {
	h := fnv.New32a()
	h.Write([]byte(content))
	return fmt.Sprintf("%d_%d", postedAt, h.Sum32())
}
