// Package method classifies dotted action method paths such as
// "triggers.new_lead.operation.perform" into action kinds.
//
// Matching is segment based: a path must have exactly the token structure of
// one of the known shapes. Anything else classifies as KindNone.
package method

import "strings"

// Kind is the category of action a method path refers to.
type Kind int

const (
	KindNone Kind = iota
	KindTrigger
	KindSearch
	KindCreate
	KindFirehoseWebhook
)

// FirehoseSubscriptionKeyList is the only firehose webhook method whose
// output is checked.
const FirehoseSubscriptionKeyList = "firehoseWebhooks.performSubscriptionKeyList"

// Kinds lists every real kind in registry order.
var Kinds = []Kind{KindCreate, KindSearch, KindTrigger, KindFirehoseWebhook}

func (k Kind) String() string {
	switch k {
	case KindTrigger:
		return "trigger"
	case KindSearch:
		return "search"
	case KindCreate:
		return "create"
	case KindFirehoseWebhook:
		return "firehose-webhook"
	default:
		return "none"
	}
}

// ParseKind is the inverse of Kind.String. Unknown names return KindNone.
func ParseKind(s string) Kind {
	for _, k := range Kinds {
		if k.String() == s {
			return k
		}
	}
	return KindNone
}

// Ref is a parsed method path.
type Ref struct {
	Kind Kind

	// Key is the trigger/search/create or resource key. Empty for firehose.
	Key string

	// Resource is true for resources.<key>.<verb>.operation.perform paths.
	Resource bool

	// Verb is the resource method: "list", "search" or "create".
	Verb string
}

// topLevel maps the first segment of a four-segment path to its kind.
var topLevel = map[string]Kind{
	"triggers": KindTrigger,
	"searches": KindSearch,
	"creates":  KindCreate,
}

// resourceVerbs maps the verb segment of a resource path to its kind.
var resourceVerbs = map[string]Kind{
	"list":   KindTrigger,
	"search": KindSearch,
	"create": KindCreate,
}

// Parse splits path into its kind and key. ok is false when path matches
// none of the known shapes.
func Parse(path string) (Ref, bool) {
	if path == FirehoseSubscriptionKeyList {
		return Ref{Kind: KindFirehoseWebhook}, true
	}

	parts := strings.Split(path, ".")
	switch len(parts) {
	case 4:
		// <triggers|searches|creates>.<key>.operation.perform
		kind, ok := topLevel[parts[0]]
		if !ok || parts[1] == "" || !isPerform(parts[2:]) {
			return Ref{}, false
		}
		return Ref{Kind: kind, Key: parts[1]}, true
	case 5:
		// resources.<key>.<list|search|create>.operation.perform
		if parts[0] != "resources" || parts[1] == "" || !isPerform(parts[3:]) {
			return Ref{}, false
		}
		kind, ok := resourceVerbs[parts[2]]
		if !ok {
			return Ref{}, false
		}
		return Ref{Kind: kind, Key: parts[1], Resource: true, Verb: parts[2]}, true
	default:
		return Ref{}, false
	}
}

func isPerform(tail []string) bool {
	return len(tail) == 2 && tail[0] == "operation" && tail[1] == "perform"
}

// Classify returns the kind of action path refers to, or KindNone.
func Classify(path string) Kind {
	ref, _ := Parse(path)
	return ref.Kind
}

// IsTrigger reports whether path is a trigger (or resource list) perform.
func IsTrigger(path string) bool { return Classify(path) == KindTrigger }

// IsSearch reports whether path is a search (or resource search) perform.
func IsSearch(path string) bool { return Classify(path) == KindSearch }

// IsCreate reports whether path is a create (or resource create) perform.
func IsCreate(path string) bool { return Classify(path) == KindCreate }

// IsFirehoseWebhook reports whether path is the firehose subscription key list.
func IsFirehoseWebhook(path string) bool { return Classify(path) == KindFirehoseWebhook }
