package graph

import "errors"

// NodeType klassifiziert die Knoten des Mention-Graphen.
type NodeType string

const (
	NodeDrug          NodeType = "drug"
	NodePubMed        NodeType = "pubmed"
	NodeClinicalTrial NodeType = "clinical_trial"
	NodeJournal       NodeType = "journal"
)

// RelMentionedIn ist die einzige Kantenbeziehung des Graphen.
const RelMentionedIn = "mentioned_in"

// Attribut-Schlüssel der Knoten. Die Attribute tragen die natürlichen
// Identitäten, die der Codec beim Export/Import benötigt.
const (
	AttrATCCode     = "atccode"
	AttrID          = "id"
	AttrTitle       = "title"
	AttrDate        = "date"
	AttrJournalName = "journal_name"
	AttrName        = "name"
)

// ErrUnknownNode wird von AddEdge zurückgegeben, wenn ein Endpunkt nicht existiert.
var ErrUnknownNode = errors.New("edge endpoint refers to unknown node")

// Node ist ein Knoten im gerichteten Mention-Graphen.
type Node struct {
	Key   string
	Type  NodeType
	Attrs map[string]string
}

// Edge ist eine gerichtete Kante mit Beziehung und Erwähnungsdatum.
type Edge struct {
	From         string
	To           string
	Relationship string
	DateMention  string
}

type edgeKey struct {
	from string
	to   string
}

// Graph ist ein gerichteter Graph mit höchstens einer Kante pro geordnetem
// Knotenpaar. Knoten- und Kantenreihenfolge ist die Einfügereihenfolge,
// damit Exporte deterministisch sind.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string
	edges     []Edge
	edgeIndex map[edgeKey]int
}

// New erstellt einen leeren Graphen.
func New() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		edgeIndex: make(map[edgeKey]int),
	}
}

// AddNode fügt einen Knoten hinzu. Existiert der Schlüssel bereits, werden
// Typ und Attribute überschrieben (letzter Schreiber gewinnt) — so kollabieren
// Trunkierungs-Kollisionen stillschweigend auf einen Knoten, siehe keys.go.
func (g *Graph) AddNode(key string, t NodeType, attrs map[string]string) {
	if attrs == nil {
		attrs = make(map[string]string)
	}
	if existing, ok := g.nodes[key]; ok {
		existing.Type = t
		existing.Attrs = attrs
		return
	}
	g.nodes[key] = &Node{Key: key, Type: t, Attrs: attrs}
	g.nodeOrder = append(g.nodeOrder, key)
}

// Node liefert den Knoten zum Schlüssel.
func (g *Graph) Node(key string) (*Node, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// HasNode prüft, ob ein Knoten existiert.
func (g *Graph) HasNode(key string) bool {
	_, ok := g.nodes[key]
	return ok
}

// AddEdge fügt eine Kante hinzu. Beide Endpunkte müssen existieren.
// Existiert die Kante (from, to) bereits, werden ihre Attribute überschrieben.
func (g *Graph) AddEdge(from, to, relationship, dateMention string) error {
	if !g.HasNode(from) || !g.HasNode(to) {
		return ErrUnknownNode
	}
	k := edgeKey{from: from, to: to}
	if i, ok := g.edgeIndex[k]; ok {
		g.edges[i].Relationship = relationship
		g.edges[i].DateMention = dateMention
		return nil
	}
	g.edges = append(g.edges, Edge{From: from, To: to, Relationship: relationship, DateMention: dateMention})
	g.edgeIndex[k] = len(g.edges) - 1
	return nil
}

// HasEdge prüft, ob die Kante (from, to) existiert.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edgeIndex[edgeKey{from: from, to: to}]
	return ok
}

// Nodes liefert alle Knoten in Einfügereihenfolge.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, key := range g.nodeOrder {
		out = append(out, g.nodes[key])
	}
	return out
}

// Edges liefert alle Kanten in Einfügereihenfolge.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount liefert die Anzahl der Knoten.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount liefert die Anzahl der Kanten.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}
