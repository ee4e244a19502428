package graph

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrParse wird zurückgegeben, wenn einem Dokument beim Import erforderliche
// Top-Level-Collections fehlen oder das JSON nicht lesbar ist.
var ErrParse = errors.New("malformed graph document")

// Document ist die serialisierte Form des Graphen. Die Relationships tragen
// natürliche Identitäten (ATC-Code, Publikations-ID, Journal-Name) statt der
// trunkierten Knoten-Schlüssel — das Dateiformat bleibt dadurch unabhängig
// von der Trunkierungs-Policy in keys.go.
type Document struct {
	Drugs         []DrugRecord      `json:"drugs"`
	Publications  PublicationGroups `json:"publications"`
	Journals      []JournalRecord   `json:"journals"`
	Relationships []Relationship    `json:"relationships"`
}

// PublicationGroups trennt Publikationen nach Quelle.
type PublicationGroups struct {
	PubMed         []PublicationRecord `json:"pubmed"`
	ClinicalTrials []PublicationRecord `json:"clinical_trials"`
}

// DrugRecord ist der Drug-Eintrag im Dokument.
type DrugRecord struct {
	ATCCode string `json:"atccode"`
	Name    string `json:"name"`
}

// PublicationRecord ist der Publikations-Eintrag im Dokument.
type PublicationRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	JournalName string `json:"journal_name"`
}

// JournalRecord ist der Journal-Eintrag im Dokument.
type JournalRecord struct {
	Name string `json:"name"`
}

// Endpoint identifiziert einen Kanten-Endpunkt über natürliche ID und Knotentyp.
type Endpoint struct {
	ID   string   `json:"id"`
	Type NodeType `json:"type"`
}

// Relationship ist der Kanten-Eintrag im Dokument.
type Relationship struct {
	Source      Endpoint `json:"source"`
	Target      Endpoint `json:"target"`
	Type        string   `json:"type"`
	DateMention string   `json:"date_mention"`
}

// Codec serialisiert den Graphen in ein Document und rekonstruiert ihn daraus.
type Codec struct {
	log *zap.Logger
}

// NewCodec erstellt einen Codec. Ein nil-Logger wird durch zap.NewNop ersetzt.
func NewCodec(log *zap.Logger) *Codec {
	if log == nil {
		log = zap.NewNop()
	}
	return &Codec{log: log}
}

// Export erzeugt das Document zum Graphen. Knoten- und Kantenreihenfolge
// des Graphen bleibt erhalten, der Export ist deterministisch.
func (c *Codec) Export(g *Graph) *Document {
	doc := &Document{
		Drugs: make([]DrugRecord, 0),
		Publications: PublicationGroups{
			PubMed:         make([]PublicationRecord, 0),
			ClinicalTrials: make([]PublicationRecord, 0),
		},
		Journals:      make([]JournalRecord, 0),
		Relationships: make([]Relationship, 0),
	}

	for _, n := range g.Nodes() {
		switch n.Type {
		case NodeDrug:
			// Der Name ist der Knoten-Schlüssel, also kleingeschrieben.
			doc.Drugs = append(doc.Drugs, DrugRecord{ATCCode: n.Attrs[AttrATCCode], Name: n.Key})
		case NodePubMed:
			doc.Publications.PubMed = append(doc.Publications.PubMed, publicationRecord(n))
		case NodeClinicalTrial:
			doc.Publications.ClinicalTrials = append(doc.Publications.ClinicalTrials, publicationRecord(n))
		case NodeJournal:
			doc.Journals = append(doc.Journals, JournalRecord{Name: n.Attrs[AttrName]})
		}
	}

	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		tgt, _ := g.Node(e.To)
		doc.Relationships = append(doc.Relationships, Relationship{
			Source:      endpointFor(src),
			Target:      endpointFor(tgt),
			Type:        e.Relationship,
			DateMention: e.DateMention,
		})
	}

	return doc
}

// EncodeJSON serialisiert den Graphen direkt als eingerücktes JSON.
func (c *Codec) EncodeJSON(g *Graph) ([]byte, error) {
	return json.MarshalIndent(c.Export(g), "", "  ")
}

// ParseDocument liest ein Document aus JSON und prüft, dass alle
// erforderlichen Top-Level-Collections vorhanden sind.
func ParseDocument(data []byte) (*Document, error) {
	var raw struct {
		Drugs        *[]DrugRecord `json:"drugs"`
		Publications *struct {
			PubMed         *[]PublicationRecord `json:"pubmed"`
			ClinicalTrials *[]PublicationRecord `json:"clinical_trials"`
		} `json:"publications"`
		Journals      *[]JournalRecord `json:"journals"`
		Relationships *[]Relationship  `json:"relationships"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw.Drugs == nil || raw.Publications == nil || raw.Journals == nil || raw.Relationships == nil {
		return nil, fmt.Errorf("%w: missing top-level collection", ErrParse)
	}
	if raw.Publications.PubMed == nil || raw.Publications.ClinicalTrials == nil {
		return nil, fmt.Errorf("%w: publications must contain pubmed and clinical_trials", ErrParse)
	}
	return &Document{
		Drugs: *raw.Drugs,
		Publications: PublicationGroups{
			PubMed:         *raw.Publications.PubMed,
			ClinicalTrials: *raw.Publications.ClinicalTrials,
		},
		Journals:      *raw.Journals,
		Relationships: *raw.Relationships,
	}, nil
}

// Import rekonstruiert den Graphen aus einem Document. Die Knoten-Schlüssel
// werden aus den natürlichen Identitäten neu abgeleitet; Relationships, deren
// Endpunkte sich nicht auflösen lassen (z.B. nach einer Trunkierungs-Kollision),
// werden mit Warnung verworfen, der Import schlägt dadurch nicht fehl.
func (c *Codec) Import(doc *Document) *Graph {
	g := New()

	for _, d := range doc.Drugs {
		g.AddNode(DrugKey(d.Name), NodeDrug, map[string]string{
			AttrATCCode: d.ATCCode,
		})
	}
	for _, p := range doc.Publications.PubMed {
		g.AddNode(PublicationKey(p.Title), NodePubMed, publicationAttrs(p))
	}
	for _, p := range doc.Publications.ClinicalTrials {
		g.AddNode(PublicationKey(p.Title), NodeClinicalTrial, publicationAttrs(p))
	}
	for _, j := range doc.Journals {
		g.AddNode(JournalKey(j.Name), NodeJournal, map[string]string{
			AttrName: j.Name,
		})
	}

	dropped := 0
	for _, rel := range doc.Relationships {
		sourceKey, sok := c.resolveEndpoint(g, rel.Source)
		targetKey, tok := c.resolveEndpoint(g, rel.Target)
		if !sok || !tok {
			dropped++
			c.log.Warn("Relationship nicht auflösbar, wird verworfen",
				zap.String("source_id", rel.Source.ID),
				zap.String("source_type", string(rel.Source.Type)),
				zap.String("target_id", rel.Target.ID),
				zap.String("target_type", string(rel.Target.Type)),
			)
			continue
		}
		if err := g.AddEdge(sourceKey, targetKey, rel.Type, rel.DateMention); err != nil {
			dropped++
			c.log.Warn("Relationship nicht auflösbar, wird verworfen", zap.Error(err))
		}
	}

	c.log.Info("Graph aus Dokument geladen",
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
		zap.Int("dropped_relationships", dropped),
	)
	return g
}

// ImportJSON parst und importiert in einem Schritt.
func (c *Codec) ImportJSON(data []byte) (*Graph, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return c.Import(doc), nil
}

// resolveEndpoint bildet die natürliche ID eines Endpunkts auf einen
// Knoten-Schlüssel ab. Drugs und Publikationen werden über ihre als Attribut
// mitgeführte Identität gesucht; Journal-IDs werden nur trunkiert, weil der
// Export den vollen Journal-Namen schreibt und der Schlüssel daraus ableitbar
// ist. Diese Asymmetrie ist Teil des persistierten Formats.
func (c *Codec) resolveEndpoint(g *Graph, ep Endpoint) (string, bool) {
	if ep.ID == "" {
		return "", false
	}
	switch ep.Type {
	case NodeDrug:
		for _, n := range g.Nodes() {
			if n.Type == NodeDrug && n.Attrs[AttrATCCode] == ep.ID {
				return n.Key, true
			}
		}
		return "", false
	case NodePubMed, NodeClinicalTrial:
		for _, n := range g.Nodes() {
			if n.Type == ep.Type && n.Attrs[AttrID] == ep.ID {
				return n.Key, true
			}
		}
		return "", false
	case NodeJournal:
		key := JournalKey(ep.ID)
		return key, g.HasNode(key)
	default:
		return ep.ID, g.HasNode(ep.ID)
	}
}

func publicationRecord(n *Node) PublicationRecord {
	return PublicationRecord{
		ID:          n.Attrs[AttrID],
		Title:       n.Attrs[AttrTitle],
		Date:        n.Attrs[AttrDate],
		JournalName: n.Attrs[AttrJournalName],
	}
}

func publicationAttrs(p PublicationRecord) map[string]string {
	return map[string]string{
		AttrID:          p.ID,
		AttrTitle:       p.Title,
		AttrDate:        p.Date,
		AttrJournalName: p.JournalName,
	}
}

func endpointFor(n *Node) Endpoint {
	switch n.Type {
	case NodeDrug:
		return Endpoint{ID: n.Attrs[AttrATCCode], Type: NodeDrug}
	case NodePubMed, NodeClinicalTrial:
		return Endpoint{ID: n.Attrs[AttrID], Type: n.Type}
	case NodeJournal:
		return Endpoint{ID: n.Attrs[AttrName], Type: NodeJournal}
	default:
		return Endpoint{ID: n.Key, Type: n.Type}
	}
}
