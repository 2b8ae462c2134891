// Package identity supplies the URI of the entity acting on behalf of the
// bot, used for creator attribution on stored entities.
package identity

// Provider reports the current representation URI. An empty URI means the
// identity is unknown and attribution is omitted.
type Provider interface {
	URI() string
}

// Static is a Provider with a fixed URI.
type Static string

func (s Static) URI() string {
	return string(s)
}

// URIOf returns p.URI(), or "" for a nil provider.
func URIOf(p Provider) string {
	if p == nil {
		return ""
	}
	return p.URI()
}
