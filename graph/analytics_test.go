package graph

import (
	"reflect"
	"testing"

	"drug-graph/models"
)

func TestJournalsWithMostDrugMentions(t *testing.T) {
	drugs := []models.Drug{
		mustDrug(t, "A1", "Epinephrine"),
		mustDrug(t, "B2", "Tetracycline"),
		mustDrug(t, "C3", "Isoprenaline"),
	}
	pubmed := []models.Publication{
		mustPublication(t, "1", "Epinephrine use in anaphylaxis", "2020-01-01", "NEJM", models.SourcePubMed),
		mustPublication(t, "2", "Tetracycline resistance patterns", "2020-02-01", "NEJM", models.SourcePubMed),
		mustPublication(t, "3", "Isoprenaline in bradycardia", "2020-03-01", "Lancet", models.SourcePubMed),
	}
	g := NewBuilder(nil).Build(drugs, pubmed, nil)

	got := JournalsWithMostDrugMentions(g)
	want := QueryResult{Journals: []string{"NEJM"}, Count: 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("JournalsWithMostDrugMentions = %+v, want %+v", got, want)
	}
}

// Bei Gleichstand werden alle Top-Journals aufsteigend sortiert zurückgegeben.
func TestJournalsWithMostDrugMentionsTie(t *testing.T) {
	drugs := []models.Drug{
		mustDrug(t, "A1", "Epinephrine"),
		mustDrug(t, "B2", "Tetracycline"),
	}
	pubmed := []models.Publication{
		mustPublication(t, "1", "Epinephrine use in anaphylaxis", "2020-01-01", "NEJM", models.SourcePubMed),
		mustPublication(t, "2", "Tetracycline resistance patterns", "2020-02-01", "Lancet", models.SourcePubMed),
	}
	g := NewBuilder(nil).Build(drugs, pubmed, nil)

	got := JournalsWithMostDrugMentions(g)
	want := QueryResult{Journals: []string{"Lancet", "NEJM"}, Count: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tie result = %+v, want %+v", got, want)
	}
}

// Derselbe Drug in mehreren Publikationen desselben Journals zählt nur einmal.
func TestJournalsWithMostDrugMentionsCountsDistinctDrugs(t *testing.T) {
	drugs := []models.Drug{mustDrug(t, "A1", "Epinephrine")}
	pubmed := []models.Publication{
		mustPublication(t, "1", "Epinephrine in cardiac arrest", "2020-01-01", "NEJM", models.SourcePubMed),
		mustPublication(t, "2", "Epinephrine dosing revisited", "2020-02-01", "NEJM", models.SourcePubMed),
	}
	g := NewBuilder(nil).Build(drugs, pubmed, nil)

	got := JournalsWithMostDrugMentions(g)
	want := QueryResult{Journals: []string{"NEJM"}, Count: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("result = %+v, want %+v", got, want)
	}
}

func TestJournalsWithMostDrugMentionsEmptyGraph(t *testing.T) {
	got := JournalsWithMostDrugMentions(New())
	if got.Count != 0 {
		t.Errorf("Count = %d, want 0", got.Count)
	}
	if got.Journals == nil || len(got.Journals) != 0 {
		t.Errorf("Journals = %v, want empty non-nil slice", got.Journals)
	}
}

func TestJournalsWithMostMentionsOfDrug(t *testing.T) {
	drugs := []models.Drug{mustDrug(t, "A1", "Epinephrine")}
	pubmed := []models.Publication{
		mustPublication(t, "1", "Epinephrine use in anaphylaxis", "2020-01-01", "NEJM", models.SourcePubMed),
	}
	g := NewBuilder(nil).Build(drugs, pubmed, nil)

	got := JournalsWithMostMentionsOfDrug(g, "Epinephrine")
	want := QueryResult{Journals: []string{"NEJM"}, Count: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("result = %+v, want %+v", got, want)
	}

	// Groß-/Kleinschreibung des Abfragenamens ist egal.
	if upper := JournalsWithMostMentionsOfDrug(g, "EPINEPHRINE"); !reflect.DeepEqual(upper, want) {
		t.Errorf("uppercase lookup = %+v, want %+v", upper, want)
	}
}

// Mehrere Publikationen im selben Journal erzeugen genau eine
// drug→journal-Kante, also zählt jedes Journal höchstens einmal.
func TestJournalsWithMostMentionsOfDrugOnePerJournal(t *testing.T) {
	drugs := []models.Drug{mustDrug(t, "A1", "Epinephrine")}
	pubmed := []models.Publication{
		mustPublication(t, "1", "Epinephrine in cardiac arrest", "2020-01-01", "NEJM", models.SourcePubMed),
		mustPublication(t, "2", "Epinephrine dosing revisited", "2020-02-01", "NEJM", models.SourcePubMed),
		mustPublication(t, "3", "Epinephrine autoinjectors compared", "2020-03-01", "Lancet", models.SourcePubMed),
	}
	g := NewBuilder(nil).Build(drugs, pubmed, nil)

	got := JournalsWithMostMentionsOfDrug(g, "epinephrine")
	want := QueryResult{Journals: []string{"Lancet", "NEJM"}, Count: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("result = %+v, want %+v", got, want)
	}
}

func TestJournalsWithMostMentionsOfDrugUnknown(t *testing.T) {
	g := scenarioGraph(t)
	got := JournalsWithMostMentionsOfDrug(g, "no such drug")
	if got.Count != 0 || len(got.Journals) != 0 || got.Journals == nil {
		t.Errorf("unknown drug result = %+v, want empty sentinel", got)
	}
}

func TestJournalsWithMostMentionsOfDrugNoJournalEdges(t *testing.T) {
	drugs := []models.Drug{mustDrug(t, "A1", "Epinephrine")}
	pubmed := []models.Publication{
		mustPublication(t, "1", "Epinephrine use in anaphylaxis", "2020-01-01", "", models.SourcePubMed),
	}
	g := NewBuilder(nil).Build(drugs, pubmed, nil)

	got := JournalsWithMostMentionsOfDrug(g, "Epinephrine")
	if got.Count != 0 || len(got.Journals) != 0 {
		t.Errorf("result = %+v, want empty sentinel (publication has no journal)", got)
	}
}
