package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"drug-graph/config"
	"drug-graph/graph"
	"drug-graph/models"
	"drug-graph/providers"
)

type stubDrugSource struct {
	drugs []models.Drug
	err   error
}

func (s stubDrugSource) Extract() ([]models.Drug, error) { return s.drugs, s.err }
func (s stubDrugSource) Name() string                    { return "stub-drugs" }

type stubPublicationSource struct {
	pubs []models.Publication
	err  error
}

func (s stubPublicationSource) Extract() ([]models.Publication, error) { return s.pubs, s.err }
func (s stubPublicationSource) Name() string                           { return "stub-publications" }

func testService(t *testing.T, drugSrc providers.DrugSource, pubmed []providers.PublicationSource, trialSrc providers.PublicationSource) *PipelineService {
	t.Helper()
	cfg := &config.Config{
		GraphOutputPath: filepath.Join(t.TempDir(), "output", "drug_mentions_graph.json"),
	}
	// DB und S3 sind nil: die Persistenz-Schritte werden übersprungen.
	return NewPipelineService(cfg, nil, nil, zap.NewNop(), drugSrc, pubmed, trialSrc)
}

func TestRunWritesDocument(t *testing.T) {
	drug, _ := models.NewDrug("A1", "Epinephrine")
	pub, _ := models.NewPublication("1", "Epinephrine use in anaphylaxis", "2020-01-01", "NEJM", models.SourcePubMed)
	trial, _ := models.NewPublication("NCT1", "Epinephrine autoinjector trial", "2020-03-01", "JAMA", models.SourceClinicalTrial)

	svc := testService(t,
		stubDrugSource{drugs: []models.Drug{drug}},
		[]providers.PublicationSource{stubPublicationSource{pubs: []models.Publication{pub}}},
		stubPublicationSource{pubs: []models.Publication{trial}},
	)

	g, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// 1 drug + 2 publications + 2 journals
	if g.NodeCount() != 5 {
		t.Errorf("NodeCount = %d, want 5", g.NodeCount())
	}

	data, err := os.ReadFile(svc.Config.GraphOutputPath)
	if err != nil {
		t.Fatalf("read graph document: %v", err)
	}
	restored, err := graph.NewCodec(nil).ImportJSON(data)
	if err != nil {
		t.Fatalf("reimport written document: %v", err)
	}
	if restored.NodeCount() != g.NodeCount() || restored.EdgeCount() != g.EdgeCount() {
		t.Errorf("written document restores %d/%d, want %d/%d",
			restored.NodeCount(), restored.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}
}

func TestRunCombinesPubMedSourcesInOrder(t *testing.T) {
	drug, _ := models.NewDrug("A1", "Epinephrine")
	first, _ := models.NewPublication("1", "Epinephrine in cardiac arrest", "2020-05-01", "NEJM", models.SourcePubMed)
	second, _ := models.NewPublication("2", "Epinephrine dosing revisited", "2020-01-01", "NEJM", models.SourcePubMed)

	svc := testService(t,
		stubDrugSource{drugs: []models.Drug{drug}},
		[]providers.PublicationSource{
			stubPublicationSource{pubs: []models.Publication{first}},
			stubPublicationSource{pubs: []models.Publication{second}},
		},
		stubPublicationSource{},
	)

	g, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Das Datum der drug→journal-Kante belegt die Quellen-Reihenfolge:
	// die erste Quelle liefert den ersten Treffer.
	for _, e := range g.Edges() {
		if e.To == "NEJM" && e.DateMention != "2020-05-01" {
			t.Errorf("journal edge date = %q, want 2020-05-01 (first source first)", e.DateMention)
		}
	}
}

func TestRunExtractionFailure(t *testing.T) {
	wantErr := errors.New("boom")
	svc := testService(t,
		stubDrugSource{err: wantErr},
		[]providers.PublicationSource{stubPublicationSource{}},
		stubPublicationSource{},
	)

	if _, err := svc.Run(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("Run error = %v, want %v", err, wantErr)
	}
	if _, err := os.Stat(svc.Config.GraphOutputPath); !os.IsNotExist(err) {
		t.Error("failed run must not write a graph document")
	}
}

func TestRunEmptySources(t *testing.T) {
	svc := testService(t,
		stubDrugSource{},
		[]providers.PublicationSource{stubPublicationSource{}},
		stubPublicationSource{},
	)

	g, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("empty sources produced %d nodes / %d edges", g.NodeCount(), g.EdgeCount())
	}
	// Das leere Dokument wird trotzdem geschrieben und bleibt parsebar.
	data, err := os.ReadFile(svc.Config.GraphOutputPath)
	if err != nil {
		t.Fatalf("read graph document: %v", err)
	}
	if _, err := graph.NewCodec(nil).ImportJSON(data); err != nil {
		t.Errorf("empty document not parseable: %v", err)
	}
}

func TestDistinctJournals(t *testing.T) {
	a, _ := models.NewPublication("1", "T1", "2020-01-01", "NEJM", models.SourcePubMed)
	b, _ := models.NewPublication("2", "T2", "2020-01-01", "NEJM", models.SourcePubMed)
	c, _ := models.NewPublication("3", "T3", "2020-01-01", "", models.SourcePubMed)
	d, _ := models.NewPublication("4", "T4", "2020-01-01", "Lancet", models.SourceClinicalTrial)

	journals := distinctJournals([]models.Publication{a, b, c, d})
	if len(journals) != 2 {
		t.Fatalf("len(journals) = %d, want 2", len(journals))
	}
	if journals[0].Name != "NEJM" || journals[1].Name != "Lancet" {
		t.Errorf("journals = %+v, want NEJM then Lancet", journals)
	}
}
