package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Eingabedateien der Extraktions-Pipeline
	DrugsCSVPath   string `envconfig:"DRUGS_CSV_PATH" default:"data/input/drugs.csv"`
	PubMedCSVPath  string `envconfig:"PUBMED_CSV_PATH" default:"data/input/pubmed.csv"`
	PubMedJSONPath string `envconfig:"PUBMED_JSON_PATH" default:"data/input/pubmed.json"`
	TrialsCSVPath  string `envconfig:"TRIALS_CSV_PATH" default:"data/input/clinical_trials.csv"`

	// Ausgabepfad des exportierten Graph-Dokuments
	GraphOutputPath string `envconfig:"GRAPH_OUTPUT_PATH" default:"data/output/drug_mentions_graph.json"`

	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 0 * * *"`

	// S3-Backup des Graph-Dokuments (optional)
	BackupEnabled  bool   `envconfig:"BACKUP_ENABLED" default:"false"`
	BackupS3Key    string `envconfig:"BACKUP_S3_KEY"`
	BackupS3Secret string `envconfig:"BACKUP_S3_SECRET"`
	BackupS3URL    string `envconfig:"BACKUP_S3_URL"`
	BackupS3Region string `envconfig:"BACKUP_S3_REGION"`
	BackupS3Bucket string `envconfig:"BACKUP_S3_BUCKET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
