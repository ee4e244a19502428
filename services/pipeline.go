package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"drug-graph/config"
	"drug-graph/graph"
	"drug-graph/models"
	"drug-graph/providers"
	"drug-graph/storage"
)

// PipelineService orchestriert den gesamten Lauf: parallele Extraktion der
// drei Quellen, Graph-Bau, Export des Dokuments und Persistenz. DB und
// S3Client sind optionale Kollaborateure und dürfen nil sein.
type PipelineService struct {
	Config        *config.Config
	DB            *gorm.DB
	S3Client      *s3.Client
	Logger        *zap.Logger
	DrugSource    providers.DrugSource
	PubMedSources []providers.PublicationSource
	TrialSource   providers.PublicationSource

	builder *graph.Builder
	codec   *graph.Codec
}

// NewPipelineService erstellt eine neue Instanz des PipelineService.
func NewPipelineService(
	cfg *config.Config,
	db *gorm.DB,
	s3Client *s3.Client,
	logger *zap.Logger,
	drugSource providers.DrugSource,
	pubmedSources []providers.PublicationSource,
	trialSource providers.PublicationSource,
) *PipelineService {
	return &PipelineService{
		Config:        cfg,
		DB:            db,
		S3Client:      s3Client,
		Logger:        logger,
		DrugSource:    drugSource,
		PubMedSources: pubmedSources,
		TrialSource:   trialSource,
		builder:       graph.NewBuilder(logger),
		codec:         graph.NewCodec(logger),
	}
}

// Run führt einen kompletten Pipeline-Lauf aus und gibt den gebauten
// Graphen zurück. Der Graph wird aus einem vollständigen Snapshot der
// Eingaben neu gebaut, es gibt keine inkrementellen Updates.
func (p *PipelineService) Run(ctx context.Context) (*graph.Graph, error) {
	start := time.Now()

	drugs, pubmed, trials, err := p.extract()
	if err != nil {
		p.Logger.Error("Extraktion fehlgeschlagen", zap.Error(err))
		return nil, err
	}

	g := p.builder.Build(drugs, pubmed, trials)

	data, err := p.codec.EncodeJSON(g)
	if err != nil {
		return nil, fmt.Errorf("encode graph document: %w", err)
	}
	if err := p.writeDocument(data); err != nil {
		return nil, err
	}

	p.persistEntities(drugs, pubmed, trials)
	p.persistSnapshot(g, data)
	p.uploadBackup(ctx, data)

	p.Logger.Info("Pipeline-Lauf abgeschlossen",
		zap.Int("drugs", len(drugs)),
		zap.Int("pubmed", len(pubmed)),
		zap.Int("clinical_trials", len(trials)),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
		zap.Duration("duration", time.Since(start)),
	)
	return g, nil
}

// extract liest die drei Quellen parallel (Fan-out) und sammelt die
// Ergebnisse erst nach Abschluss aller Läufe wieder ein (Fan-in). Die
// Quellen teilen keinen Zustand, erst der Builder sieht alle Listen.
func (p *PipelineService) extract() ([]models.Drug, []models.Publication, []models.Publication, error) {
	var (
		wg     sync.WaitGroup
		drugs  []models.Drug
		trials []models.Publication
	)
	pubmedParts := make([][]models.Publication, len(p.PubMedSources))
	errs := make([]error, 2+len(p.PubMedSources))

	wg.Add(1)
	go func() {
		defer wg.Done()
		drugs, errs[0] = p.DrugSource.Extract()
	}()

	for i, src := range p.PubMedSources {
		wg.Add(1)
		go func(i int, src providers.PublicationSource) {
			defer wg.Done()
			pubmedParts[i], errs[1+i] = src.Extract()
		}(i, src)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		trials, errs[len(errs)-1] = p.TrialSource.Extract()
	}()

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, nil, nil, err
		}
	}

	// Reihenfolge der PubMed-Quellen bleibt erhalten (CSV vor JSON)
	var pubmed []models.Publication
	for _, part := range pubmedParts {
		pubmed = append(pubmed, part...)
	}
	return drugs, pubmed, trials, nil
}

// writeDocument schreibt das exportierte Dokument an den konfigurierten Pfad.
func (p *PipelineService) writeDocument(data []byte) error {
	path := p.Config.GraphOutputPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write graph document: %w", err)
	}
	p.Logger.Info("Graph-Dokument geschrieben", zap.String("path", path))
	return nil
}

// persistEntities upsertet die extrahierten Entitäten in die Datenbank.
func (p *PipelineService) persistEntities(drugs []models.Drug, pubmed, trials []models.Publication) {
	if p.DB == nil {
		return
	}

	if len(drugs) > 0 {
		err := p.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "atccode"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&drugs).Error
		if err != nil {
			p.Logger.Error("Upsert der Drugs fehlgeschlagen", zap.Error(err))
		}
	}

	publications := append(append([]models.Publication{}, pubmed...), trials...)
	if len(publications) > 0 {
		err := p.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pub_id"}, {Name: "source"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "date", "journal_name"}),
		}).Create(&publications).Error
		if err != nil {
			p.Logger.Error("Upsert der Publikationen fehlgeschlagen", zap.Error(err))
		}
	}

	journals := distinctJournals(publications)
	if len(journals) > 0 {
		err := p.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&journals).Error
		if err != nil {
			p.Logger.Error("Upsert der Journals fehlgeschlagen", zap.Error(err))
		}
	}
}

// persistSnapshot speichert das Dokument als Snapshot-Zeile (jsonb).
func (p *PipelineService) persistSnapshot(g *graph.Graph, data []byte) {
	if p.DB == nil {
		return
	}
	snapshot := models.GraphSnapshot{
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
		Document:  datatypes.JSON(data),
	}
	if err := p.DB.Create(&snapshot).Error; err != nil {
		p.Logger.Error("Speichern des Graph-Snapshots fehlgeschlagen", zap.Error(err))
	}
}

// uploadBackup lädt das Dokument nach S3, falls Backups aktiviert sind.
func (p *PipelineService) uploadBackup(ctx context.Context, data []byte) {
	if p.S3Client == nil || !p.Config.BackupEnabled {
		return
	}
	key := fmt.Sprintf("drug-mentions-graph-%s.json", time.Now().UTC().Format("2006-01-02T15-04-05Z"))
	link, err := storage.UploadFile(ctx, p.S3Client, p.Config.BackupS3Bucket, key, data, p.Config)
	if err != nil {
		p.Logger.Error("S3-Upload des Graph-Dokuments fehlgeschlagen", zap.Error(err))
		return
	}
	p.Logger.Info("Graph-Dokument nach S3 hochgeladen", zap.String("s3_link", link))
}

// distinctJournals leitet die Journal-Zeilen aus den Publikationen ab.
func distinctJournals(publications []models.Publication) []models.Journal {
	seen := make(map[string]bool)
	var journals []models.Journal
	for _, p := range publications {
		j, err := models.NewJournal(p.JournalName)
		if err != nil {
			continue // Publikationen ohne Journal sind erlaubt
		}
		if seen[j.Name] {
			continue
		}
		seen[j.Name] = true
		journals = append(journals, j)
	}
	return journals
}
