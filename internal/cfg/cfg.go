package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/DRSN-tech/plant-catalog/pkg/logger"
	"github.com/jimlawless/whereami"
)

const (
	UploadBackendDisk  = "disk"
	UploadBackendMinio = "minio"

	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

type Config struct {
	Http    *HTTPConfig
	Storage *StorageCfg
	Db      *PGDBCfg
	Upload  *UploadCfg
	Minio   *MinIOCfg
	Kafka   *KafkaCfg
	Log     *LogCfg
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StorageCfg выбирает хранилище растений. memory не переживает перезапуск и не публикует события.
type StorageCfg struct {
	Backend string // postgres | memory
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN возвращает строку подключения в формате key=value.
func (c *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type UploadCfg struct {
	Backend     string // disk | minio
	Dir         string // каталог для backend=disk
	MaxFileSize int64
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Название бакета для изображений растений
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
}

// KafkaCfg описывает публикацию событий каталога. Пустой Brokers отключает публикацию.
type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
	BatchSize         int
}

// Enabled сообщает, настроена ли публикация событий в Kafka.
func (k *KafkaCfg) Enabled() bool {
	return len(k.Brokers) > 0
}

type LogCfg struct {
	Level  string
	Format string
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	storage, err := loadStorageCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	db, err := loadPGDBCfg(log, storage.Backend == StorageBackendPostgres)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	upload, err := loadUploadCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log, upload.Backend == UploadBackendMinio)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:    http,
		Storage: storage,
		Db:      db,
		Upload:  upload,
		Minio:   minio,
		Kafka:   kafka,
		Log:     loadLogCfg(),
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort            = "8080"
		defaultReadTimeout     = 15 * time.Second
		defaultWriteTimeout    = 30 * time.Second
		defaultIdleTimeout     = 60 * time.Second
		defaultShutdownTimeout = 10 * time.Second
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		log.Errorf(err, "invalid SHUTDOWN_TIMEOUT")
		return nil, err
	}

	return &HTTPConfig{
		Port:            getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func loadStorageCfg(log logger.Logger) (*StorageCfg, error) {
	backend := strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageBackendPostgres))
	if backend != StorageBackendPostgres && backend != StorageBackendMemory {
		err := e.Wrap(backend, e.ErrUnknownStorageBackend)
		log.Errorf(err, "invalid STORAGE_BACKEND")
		return nil, err
	}

	return &StorageCfg{Backend: backend}, nil
}

func loadPGDBCfg(log logger.Logger, required bool) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	user := getEnv("POSTGRES_USER")
	password := getEnv("POSTGRES_PASSWORD")
	dbName := getEnv("POSTGRES_DB")

	if required {
		for key, value := range map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
			"POSTGRES_DB":       dbName,
		} {
			if value == "" {
				err := fmt.Errorf("%s is required", key)
				log.Errorf(err, "missing %s", key)
				return nil, err
			}
		}
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

func loadUploadCfg(log logger.Logger) (*UploadCfg, error) {
	const (
		defaultBackend     = UploadBackendDisk
		defaultDir         = "uploads"
		defaultMaxFileSize = 10 << 20
	)

	backend := strings.ToLower(getEnvOrDefault("UPLOAD_BACKEND", defaultBackend))
	if backend != UploadBackendDisk && backend != UploadBackendMinio {
		err := e.Wrap(backend, e.ErrUnknownUploadBackend)
		log.Errorf(err, "invalid UPLOAD_BACKEND")
		return nil, err
	}

	maxFileSize, err := parseIntEnv("UPLOAD_MAX_FILE_SIZE", defaultMaxFileSize)
	if err != nil {
		log.Errorf(err, "invalid UPLOAD_MAX_FILE_SIZE")
		return nil, err
	}

	return &UploadCfg{
		Backend:     backend,
		Dir:         getEnvOrDefault("UPLOAD_DIR", defaultDir),
		MaxFileSize: int64(maxFileSize),
	}, nil
}

func loadMinIOCfg(log logger.Logger, required bool) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
		defaultBucket   = "plant-images"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	minio := &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
	}

	if required && (minio.MinioRootUser == "" || minio.MinioRootPassword == "") {
		err := fmt.Errorf("MINIO_ROOT_USER and MINIO_ROOT_PASSWORD are required for UPLOAD_BACKEND=minio")
		log.Errorf(err, "missing MinIO credentials")
		return nil, err
	}

	return minio, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic             = "plant-catalog.events"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultBatchSize         = 10
	)

	var brokers []string
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	batchSize, err := parseIntEnv("OUTBOX_BATCH_SIZE", defaultBatchSize)
	if err != nil {
		return nil, e.Wrap("OUTBOX_BATCH_SIZE", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
		BatchSize:         batchSize,
	}, nil
}

func loadLogCfg() *LogCfg {
	return &LogCfg{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
