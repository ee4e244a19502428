package graph

import (
	"strings"

	"go.uber.org/zap"

	"drug-graph/models"
)

// Builder baut den Drug-Mention-Graphen aus validierten Entity-Listen.
type Builder struct {
	log *zap.Logger
}

// NewBuilder erstellt einen Builder. Ein nil-Logger wird durch zap.NewNop ersetzt.
func NewBuilder(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log}
}

// Build konstruiert den Graphen: ein Knoten pro Drug, Publikation und Journal,
// eine Kante drug→publication für jede Titel-Erwähnung und höchstens eine
// Kante drug→journal pro Paar. Build ist eine reine Funktion seiner Eingaben:
// zweimaliges Bauen derselben Listen liefert identische Knoten- und Kantenmengen.
func (b *Builder) Build(drugs []models.Drug, pubmed, trials []models.Publication) *Graph {
	g := New()

	// PubMed vor Clinical Trials, relative Reihenfolge je Quelle bleibt erhalten
	publications := make([]models.Publication, 0, len(pubmed)+len(trials))
	publications = append(publications, pubmed...)
	publications = append(publications, trials...)

	b.addNodes(g, drugs, publications)
	b.connectDrugs(g, drugs, publications)

	b.log.Info("Graph gebaut",
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
	)
	return g
}

// addNodes legt alle Knoten mit den Attributen an, die der Export später braucht.
func (b *Builder) addNodes(g *Graph, drugs []models.Drug, publications []models.Publication) {
	for _, d := range drugs {
		g.AddNode(DrugKey(d.Name), NodeDrug, map[string]string{
			AttrATCCode: d.ATCCode,
		})
	}

	for _, p := range publications {
		g.AddNode(PublicationKey(p.Title), nodeTypeForSource(p.Source), map[string]string{
			AttrID:          p.ID,
			AttrTitle:       p.Title,
			AttrDate:        p.Date,
			AttrJournalName: p.JournalName,
		})
	}

	// Journal-Menge: distinkte, nicht-leere Journal-Namen über alle Publikationen
	seen := make(map[string]bool)
	for _, p := range publications {
		name := strings.TrimSpace(p.JournalName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		g.AddNode(JournalKey(name), NodeJournal, map[string]string{
			AttrName: name,
		})
	}
}

// connectDrugs verbindet Drugs mit Publikationen und Journals über
// case-insensitive Substring-Treffer im Titel.
func (b *Builder) connectDrugs(g *Graph, drugs []models.Drug, publications []models.Publication) {
	type pair struct {
		drug    string
		journal string
	}
	connected := make(map[pair]bool)

	for _, d := range drugs {
		drugKey := DrugKey(d.Name)
		needle := strings.ToLower(d.Name)

		for _, p := range publications {
			// Wörtliche Teilstring-Suche, bewusst naiv: "amphetamine" trifft
			// auch Titel über "Dextroamphetamine".
			if !strings.Contains(strings.ToLower(p.Title), needle) {
				continue
			}

			if err := g.AddEdge(drugKey, PublicationKey(p.Title), RelMentionedIn, p.Date); err != nil {
				b.log.Warn("Kante drug→publication übersprungen", zap.String("drug", drugKey), zap.Error(err))
				continue
			}

			journalName := strings.TrimSpace(p.JournalName)
			if journalName == "" {
				continue
			}
			journalKey := JournalKey(journalName)
			key := pair{drug: drugKey, journal: journalKey}
			if connected[key] {
				// Höchstens eine Kante pro (drug, journal); das Datum der
				// ersten passenden Publikation in Eingabereihenfolge gewinnt.
				continue
			}
			if err := g.AddEdge(drugKey, journalKey, RelMentionedIn, p.Date); err != nil {
				b.log.Warn("Kante drug→journal übersprungen", zap.String("journal", journalKey), zap.Error(err))
				continue
			}
			connected[key] = true
		}
	}
}

// nodeTypeForSource bildet die Publikationsquelle auf den Knotentyp ab.
func nodeTypeForSource(source models.PublicationSource) NodeType {
	if source == models.SourceClinicalTrial {
		return NodeClinicalTrial
	}
	return NodePubMed
}
