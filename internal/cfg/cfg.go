package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/fashion-rag/pkg/e"
	"github.com/DRSN-tech/fashion-rag/pkg/logger"
	"github.com/jimlawless/whereami"
)

type Config struct {
	Http   *HTTPConfig
	Db     *PGDBCfg
	Qdrant *QdrantCfg
	Redis  *RedisCfg
	Minio  *MinIOCfg
	Kafka  *KafkaCfg
	Llm    *LlmCfg
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type QdrantCfg struct {
	Port           int
	Host           string
	ApiKey         string
	CollectionName string // имя коллекции в Qdrant
	UseTLS         bool
	VectorSize     uint64
	MaxRetries     int
	SearchTimeout  time.Duration
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	ProductTTL  time.Duration
}

type MinIOCfg struct {
	Endpoint     string
	BucketName   string // бакет для референс-фото из чата
	RootUser     string
	RootPassword string
	UseSSL       bool
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

// LlmCfg описывает доступ к hosted-моделям эмбеддингов и чата.
type LlmCfg struct {
	ApiKey         string
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
	VectorSize     int
	MaxConcurrent  int // лимит одновременных запросов на эмбеддинги при индексации
	MaxRetries     int
	RequestTimeout time.Duration
	Temperature    float32
	Offline        bool // детерминированные эмбеддинги без сети (dev/тесты)
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	qdrant, err := loadQdrantCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	llm, err := loadLlmCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:   http,
		Db:     db,
		Qdrant: qdrant,
		Redis:  redis,
		Minio:  minio,
		Kafka:  kafka,
		Llm:    llm,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 30 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

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

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
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

func loadQdrantCfg(logger logger.Logger) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort = "6334"
		defaultUseTLS         = false
		defaultVectorSize     = "768"
		defaultCollection     = "products"
		defaultMaxRetries     = 3
		defaultSearchTimeout  = 10 * time.Second
	)

	strPort := getEnvOrDefault("QDRANT_GRPC_PORT", defaultQdrantGRPCPort)
	port, err := strconv.Atoi(strPort)
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_GRPC_PORT")
		return nil, err
	}

	useTLS, err := strconv.ParseBool(getEnvOrDefault("QDRANT_USE_TLS", strconv.FormatBool(defaultUseTLS)))
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, err
	}

	strVectorSize := getEnvOrDefault("VECTOR_SIZE", defaultVectorSize)
	vectorSize, err := strconv.ParseUint(strVectorSize, 10, 64)
	if err != nil {
		logger.Errorf(err, "invalid VECTOR_SIZE")
		return nil, err
	}

	maxRetries, err := parseIntEnv("QDRANT_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_MAX_RETRIES")
		return nil, err
	}

	searchTimeout, err := parseDurationEnv("QDRANT_SEARCH_TIMEOUT", defaultSearchTimeout)
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_SEARCH_TIMEOUT")
		return nil, err
	}

	return &QdrantCfg{
		Host:           getEnvOrDefault("QDRANT_HOST", "localhost"),
		Port:           port,
		ApiKey:         getEnv("QDRANT__SERVICE__API_KEY"),
		CollectionName: getEnvOrDefault("COLLECTION_NAME", defaultCollection),
		UseTLS:         useTLS,
		VectorSize:     vectorSize,
		MaxRetries:     maxRetries,
		SearchTimeout:  searchTimeout,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultProductTTL   = 3 * time.Minute
	)

	addr := getEnvOrDefault("REDIS_ADDR", defaultAddr)
	password := getEnv("REDIS_PASSWORD")
	user := getEnv("REDIS_USER")

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	productTTL, err := parseDurationEnv("PRODUCT_TTL", defaultProductTTL)
	if err != nil {
		log.Errorf(err, "invalid PRODUCT_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        addr,
		Password:    password,
		User:        user,
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		ProductTTL:  productTTL,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
		defaultBucket   = "chat-images"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		Endpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:   getEnvOrDefault("BUCKET_NAME", defaultBucket),
		RootUser:     getEnv("MINIO_ROOT_USER"),
		RootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		UseSSL:       useSSL,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultTopic             = "catalog.ingested"
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	brokers := strings.Split(brokerStr, ",")

	topic := getEnvOrDefault("KAFKA_TOPIC", defaultTopic)

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	networkMode := getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode)

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             topic,
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       networkMode,
	}, nil
}

func loadLlmCfg(log logger.Logger) (*LlmCfg, error) {
	const (
		defaultEmbeddingModel = "text-embedding-3-small"
		defaultChatModel      = "gpt-4o-mini"
		defaultVectorSize     = 768
		defaultMaxConcurrent  = 8
		defaultMaxRetries     = 3
		defaultTimeout        = 30 * time.Second
		defaultTemperature    = 0.4
	)

	offline, err := strconv.ParseBool(getEnvOrDefault("LLM_OFFLINE", "false"))
	if err != nil {
		log.Errorf(err, "invalid LLM_OFFLINE")
		return nil, err
	}

	apiKey := getEnv("LLM_API_KEY")
	if apiKey == "" && !offline {
		err := fmt.Errorf("LLM_API_KEY is required")
		log.Errorf(err, "missing LLM_API_KEY")
		return nil, err
	}

	vectorSize, err := parseIntEnv("VECTOR_SIZE", defaultVectorSize)
	if err != nil {
		log.Errorf(err, "invalid VECTOR_SIZE")
		return nil, err
	}

	maxConcurrent, err := parseIntEnv("LLM_MAX_CONCURRENT", defaultMaxConcurrent)
	if err != nil {
		log.Errorf(err, "invalid LLM_MAX_CONCURRENT")
		return nil, err
	}

	maxRetries, err := parseIntEnv("LLM_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid LLM_MAX_RETRIES")
		return nil, err
	}

	requestTimeout, err := parseDurationEnv("LLM_REQUEST_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid LLM_REQUEST_TIMEOUT")
		return nil, err
	}

	temperature := float32(defaultTemperature)
	if v := getEnv("LLM_TEMPERATURE"); v != "" {
		parsed, err := strconv.ParseFloat(v, 32)
		if err != nil {
			log.Errorf(err, "invalid LLM_TEMPERATURE")
			return nil, err
		}
		temperature = float32(parsed)
	}

	return &LlmCfg{
		ApiKey:         apiKey,
		BaseURL:        getEnv("LLM_BASE_URL"),
		EmbeddingModel: getEnvOrDefault("LLM_EMBEDDING_MODEL", defaultEmbeddingModel),
		ChatModel:      getEnvOrDefault("LLM_CHAT_MODEL", defaultChatModel),
		VectorSize:     vectorSize,
		MaxConcurrent:  maxConcurrent,
		MaxRetries:     maxRetries,
		RequestTimeout: requestTimeout,
		Temperature:    temperature,
		Offline:        offline,
	}, nil
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
