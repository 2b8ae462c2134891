// Package rdf describes entities exchanged with the storage collaborator:
// type tags, literal properties, and references to other entities, all keyed
// by predicate URIs.
package rdf

// Namespace is a URI prefix for a vocabulary.
type Namespace string

// Term joins the namespace with a local name.
func (ns Namespace) Term(local string) string {
	return string(ns) + local
}

const (
	DC       Namespace = "http://purl.org/dc/elements/1.1/"
	DCTerms  Namespace = "http://purl.org/dc/terms/"
	FOAF     Namespace = "http://xmlns.com/foaf/0.1/"
	WGS84    Namespace = "http://www.w3.org/2003/01/geo/wgs84_pos#"
	Schema   Namespace = "http://schema.org/"
	EventNS  Namespace = "http://purl.org/NET/c4dm/event.owl#"
	Timeline Namespace = "http://purl.org/NET/c4dm/timeline.owl#"
	Graph    Namespace = "http://degree.meerkatlabs.org/graph#"
	Rho      Namespace = "http://rho.meerkatlabs.org/ns#"
)

// Vocabulary used by the journal commands.
var (
	TypeSpatialThing = WGS84.Term("SpatialThing")
	TypeOwner        = Rho.Term("Owner")
	TypePerson       = FOAF.Term("Person")
	TypeInterval     = Timeline.Term("Interval")
	TypeEvent        = EventNS.Term("Event")

	SchemaName   = Schema.Term("name")
	GraphDegree  = Graph.Term("degree")
	DCTitle      = DC.Term("title")
	DCDesc       = DC.Term("description")
	DCCreator    = DCTerms.Term("creator")
	TimelineFrom = Timeline.Term("start")
	TimelineTo   = Timeline.Term("end")
	EventAgent   = EventNS.Term("agent")
	EventPlace   = EventNS.Term("place")
	EventTime    = EventNS.Term("time")
)
