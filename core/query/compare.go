package query

import (
	"cmp"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var defaultLocale = language.English

// Comparator orders cell values. Numbers compare numerically, timestamps by
// instant, and everything else as locale-collated text. A Comparator is safe
// for concurrent use.
type Comparator struct {
	mu       sync.Mutex
	collator *collate.Collator
}

// NewComparator creates a Comparator collating text for the given locale. The
// zero tag collates as English.
func NewComparator(locale language.Tag) *Comparator {
	if locale == language.Und {
		locale = defaultLocale
	}
	return &Comparator{collator: collate.New(locale)}
}

// Compare returns a negative number when a sorts before b, a positive number
// when after and zero when they are equal. Nil values sort after every other
// value; two nils are equal.
func (c *Comparator) Compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	if af, ok := ToFloat64(a); ok {
		if bf, ok := ToFloat64(b); ok {
			return cmp.Compare(af, bf)
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return c.compareText(as, bs)
		}
	}
	if at, ok := a.(Timestamped); ok {
		if bt, ok := b.(Timestamped); ok {
			return cmp.Compare(at.UnixNano(), bt.UnixNano())
		}
	}
	return c.compareText(Stringify(a), Stringify(b))
}

func (c *Comparator) compareText(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collator.CompareString(a, b)
}
