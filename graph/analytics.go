package graph

import "sort"

// QueryResult ist das Ergebnis der Analytics-Abfragen. Eine leere
// Journal-Liste mit Count 0 bedeutet "keine Journals gefunden" — die
// Abfragen schlagen auf leeren Daten nie fehl.
type QueryResult struct {
	Journals []string `json:"journals"`
	Count    int      `json:"count"`
}

func emptyResult() QueryResult {
	return QueryResult{Journals: []string{}}
}

// JournalsWithMostDrugMentions liefert die Journals, die die meisten
// verschiedenen Drugs (nach ATC-Code) erwähnen. Bei Gleichstand werden alle
// Namen aufsteigend alphabetisch sortiert zurückgegeben.
func JournalsWithMostDrugMentions(g *Graph) QueryResult {
	drugsPerJournal := make(map[string]map[string]bool)

	for _, e := range g.Edges() {
		src, ok := g.Node(e.From)
		if !ok || src.Type != NodeDrug {
			continue
		}
		tgt, ok := g.Node(e.To)
		if !ok || tgt.Type != NodeJournal {
			continue
		}
		name := tgt.Attrs[AttrName]
		if drugsPerJournal[name] == nil {
			drugsPerJournal[name] = make(map[string]bool)
		}
		drugsPerJournal[name][src.Attrs[AttrATCCode]] = true
	}

	if len(drugsPerJournal) == 0 {
		return emptyResult()
	}

	max := 0
	for _, drugs := range drugsPerJournal {
		if len(drugs) > max {
			max = len(drugs)
		}
	}

	top := make([]string, 0, 1)
	for name, drugs := range drugsPerJournal {
		if len(drugs) == max {
			top = append(top, name)
		}
	}
	sort.Strings(top)

	return QueryResult{Journals: top, Count: max}
}

// JournalsWithMostMentionsOfDrug liefert die Journals mit den meisten
// Erwähnungen des Drugs, dessen Knoten-Schlüssel dem kleingeschriebenen
// drugName entspricht. Jede drug→journal-Kante zählt genau einmal; da pro
// (drug, journal) höchstens eine Kante existiert, ist das die Anzahl der
// qualifizierenden Journals. Unbekannte Drugs liefern das leere Ergebnis.
func JournalsWithMostMentionsOfDrug(g *Graph, drugName string) QueryResult {
	key := DrugKey(drugName)
	node, ok := g.Node(key)
	if !ok || node.Type != NodeDrug {
		return emptyResult()
	}

	mentions := make(map[string]int)
	for _, e := range g.Edges() {
		if e.From != key {
			continue
		}
		tgt, ok := g.Node(e.To)
		if !ok || tgt.Type != NodeJournal {
			continue
		}
		mentions[tgt.Attrs[AttrName]]++
	}

	if len(mentions) == 0 {
		return emptyResult()
	}

	max := 0
	for _, count := range mentions {
		if count > max {
			max = count
		}
	}

	top := make([]string, 0, 1)
	for name, count := range mentions {
		if count == max {
			top = append(top, name)
		}
	}
	sort.Strings(top)

	return QueryResult{Journals: top, Count: max}
}
