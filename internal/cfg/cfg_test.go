package cfg

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/DRSN-tech/plant-catalog/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.NewSlogLoggerWithOptions(io.Discard, "error", "text")
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "plants")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "catalog")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Http.Port != "8080" {
		t.Errorf("Http.Port = %q, want %q", cfg.Http.Port, "8080")
	}
	if cfg.Http.ReadTimeout != 15*time.Second {
		t.Errorf("Http.ReadTimeout = %v, want %v", cfg.Http.ReadTimeout, 15*time.Second)
	}
	if cfg.Db.Host != "localhost" || cfg.Db.Port != "5432" || cfg.Db.SSLMode != "disable" {
		t.Errorf("unexpected db defaults: %+v", cfg.Db)
	}
	if cfg.Storage.Backend != StorageBackendPostgres {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, StorageBackendPostgres)
	}
	if cfg.Upload.Backend != UploadBackendDisk {
		t.Errorf("Upload.Backend = %q, want %q", cfg.Upload.Backend, UploadBackendDisk)
	}
	if cfg.Upload.Dir != "uploads" {
		t.Errorf("Upload.Dir = %q, want %q", cfg.Upload.Dir, "uploads")
	}
	if cfg.Kafka.Enabled() {
		t.Errorf("Kafka should be disabled without KAFKA_BROKERS, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HTTP_WRITE_TIMEOUT", "45s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("KAFKA_TOPIC", "plants")
	t.Setenv("UPLOAD_MAX_FILE_SIZE", "2048")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Http.Port != "9090" {
		t.Errorf("Http.Port = %q, want %q", cfg.Http.Port, "9090")
	}
	if cfg.Http.WriteTimeout != 45*time.Second {
		t.Errorf("Http.WriteTimeout = %v, want %v", cfg.Http.WriteTimeout, 45*time.Second)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Errorf("Kafka.Brokers = %v, want [kafka-1:9092 kafka-2:9092]", cfg.Kafka.Brokers)
	}
	if !cfg.Kafka.Enabled() || cfg.Kafka.Topic != "plants" {
		t.Errorf("unexpected kafka config: %+v", cfg.Kafka)
	}
	if cfg.Upload.MaxFileSize != 2048 {
		t.Errorf("Upload.MaxFileSize = %d, want 2048", cfg.Upload.MaxFileSize)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoad_MissingPostgresUser(t *testing.T) {
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "catalog")

	if _, err := Load(testLogger()); err == nil {
		t.Fatal("expected error for missing POSTGRES_USER")
	}
}

func TestLoad_MemoryStorageWithoutPostgres(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Setenv("POSTGRES_DB", "")

	cfg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != StorageBackendMemory {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, StorageBackendMemory)
	}
}

func TestLoad_UnknownStorageBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_BACKEND", "mongo")

	_, err := Load(testLogger())
	if !errors.Is(err, e.ErrUnknownStorageBackend) {
		t.Fatalf("Load() error = %v, want %v", err, e.ErrUnknownStorageBackend)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	if _, err := Load(testLogger()); err == nil {
		t.Fatal("expected error for invalid HTTP_READ_TIMEOUT")
	}
}

func TestLoad_UnknownUploadBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("UPLOAD_BACKEND", "ftp")

	_, err := Load(testLogger())
	if !errors.Is(err, e.ErrUnknownUploadBackend) {
		t.Fatalf("Load() error = %v, want %v", err, e.ErrUnknownUploadBackend)
	}
}

func TestLoad_MinioBackendRequiresCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("UPLOAD_BACKEND", "minio")
	t.Setenv("MINIO_ROOT_USER", "")
	t.Setenv("MINIO_ROOT_PASSWORD", "")

	if _, err := Load(testLogger()); err == nil {
		t.Fatal("expected error for minio backend without credentials")
	}

	t.Setenv("MINIO_ROOT_USER", "minio")
	t.Setenv("MINIO_ROOT_PASSWORD", "minio123")

	cfg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Minio.BucketName != "plant-images" {
		t.Errorf("Minio.BucketName = %q, want plant-images", cfg.Minio.BucketName)
	}
}

func TestPGDBCfg_DSN(t *testing.T) {
	c := &PGDBCfg{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "plants", SSLMode: "require"}
	want := "host=db port=5433 user=u password=p dbname=plants sslmode=require"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
